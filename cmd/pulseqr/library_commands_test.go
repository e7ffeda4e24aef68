package main

import (
	"encoding/json"
	"testing"

	"pulseqr/internal/testsupport"
)

func TestLibraryCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenLibrary(t, env.cfg)
	testsupport.PutPulse(t, store, "00000001", "alpha")
	testsupport.PutPulse(t, store, "00000002", "beta")
	store.Close()

	out, _, err := runCLI(t, []string{"library", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("library list --json: %v", err)
	}
	var records []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if len(records) != 2 || records[0].Name != "alpha" {
		t.Fatalf("unexpected records %+v", records)
	}

	out, _, err = runCLI(t, []string{"library", "show", "00000002"}, env.configPath)
	if err != nil {
		t.Fatalf("library show: %v", err)
	}
	requireContains(t, out, "== beta ==")
	requireContains(t, out, "0,50,100")

	if _, _, err := runCLI(t, []string{"library", "show", "ffffffff"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown id")
	}

	out, _, err = runCLI(t, []string{"library", "remove", "00000001", "ffffffff"}, env.configPath)
	if err != nil {
		t.Fatalf("library remove: %v", err)
	}
	requireContains(t, out, "Removed 00000001")
	requireContains(t, out, "Pulse ffffffff not found")

	out, _, err = runCLI(t, []string{"library", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("library clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 pulses")

	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "Library is empty")
}
