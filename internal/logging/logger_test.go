package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pulseqr/internal/config"
	"pulseqr/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "debug"
	logPath := logging.RunLogPath(t.TempDir(), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if !strings.HasSuffix(logPath, "pulseqr-20260102T030405.000Z.log") {
		t.Fatalf("unexpected run log path %q", logPath)
	}

	logger, err := logging.NewFromConfig(&cfg, logPath)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	if got := readLog(t, logPath); !strings.Contains(got, "debug message") {
		t.Fatalf("expected debug line in run log, got %q", got)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "batch").Info("pulse generated",
		logging.String("name", "slow wave"),
		logging.Int("frames", 12),
	)
	logger.Debug("hidden")

	got := readLog(t, logPath)
	if !strings.Contains(got, "INFO batch: pulse generated") {
		t.Fatalf("expected component prefix, got %q", got)
	}
	if !strings.Contains(got, `name="slow wave"`) || !strings.Contains(got, "frames=12") {
		t.Fatalf("expected formatted fields, got %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Fatalf("debug line should be filtered at info level, got %q", got)
	}
	if strings.Contains(got, "logger_test.go") {
		t.Fatalf("info level should omit source, got %q", got)
	}
}

func TestJSONLoggerEmitsStructuredRecord(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("decode failed", logging.Error(errors.New("bad hex")))

	var record map[string]any
	line := strings.TrimSpace(readLog(t, logPath))
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if record["msg"] != "decode failed" || record["error"] != "bad hex" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-1")
	ctx = logging.WithSourceFile(ctx, "/tmp/01-wave.png")
	logging.WithContext(ctx, logger).Info("scanning")

	got := readLog(t, logPath)
	if !strings.Contains(got, "run_id=run-1") || !strings.Contains(got, "source_file=/tmp/01-wave.png") {
		t.Fatalf("expected context fields, got %q", got)
	}
	if id, ok := logging.RunIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("expected no run id on empty context, got %q", id)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "skipped image", "image_skipped", logging.String(logging.FieldImpact, "pulse missing"))

	got := readLog(t, logPath)
	for _, want := range []string{"event_type=image_skipped", `error_hint="check logs for details"`, `impact="pulse missing"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	if strings.Count(got, "impact=") != 1 {
		t.Fatalf("impact should not be duplicated: %q", got)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	oldLog := filepath.Join(dir, "pulseqr-old.log")
	newLog := filepath.Join(dir, "pulseqr-new.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{oldLog, newLog, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{oldLog, other} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	auditPath := filepath.Join(t.TempDir(), "audit.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{auditPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.CleanupOldLogs(logger, 30, logging.RetentionTarget{Dir: dir, Pattern: "pulseqr-*.log"})

	var record map[string]any
	line := strings.TrimSpace(readLog(t, auditPath))
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	if record["msg"] != "log pruned" || record["bytes"] != float64(1) {
		t.Fatalf("unexpected prune record %v", record)
	}

	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	if _, err := os.Stat(newLog); err != nil {
		t.Fatalf("expected recent log kept: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("expected non-matching file kept: %v", err)
	}
}
