package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"pulseqr/internal/config"
)

const recordColumns = "id, name, source_path, url, waveform_json, frames_json, created_at, updated_at"

// Store manages pulse persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database at cfg.Paths.LibraryDB.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Paths.LibraryDB)
}

// OpenPath opens the database file at dbPath, creating the schema if needed.
func OpenPath(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("library database path is empty")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Upsert inserts rec or replaces the stored pulse with the same ID and source
// path. Identical payloads read from different files are kept as separate
// rows. The original creation time is kept on replacement.
func (s *Store) Upsert(ctx context.Context, rec Record) (*Record, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return nil, errors.New("record id is empty")
	}
	waveformJSON, err := json.Marshal(rec.Waveform)
	if err != nil {
		return nil, fmt.Errorf("marshal waveform: %w", err)
	}
	frames := rec.Frames
	if frames == nil {
		frames = []string{}
	}
	framesJSON, err := json.Marshal(frames)
	if err != nil {
		return nil, fmt.Errorf("marshal frames: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pulses (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id, source_path) DO UPDATE SET
             name = excluded.name,
             url = excluded.url,
             waveform_json = excluded.waveform_json,
             frames_json = excluded.frames_json,
             updated_at = excluded.updated_at`,
		rec.ID,
		rec.Name,
		strings.TrimSpace(rec.SourcePath),
		rec.URL,
		string(waveformJSON),
		string(framesJSON),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert pulse %s: %w", rec.ID, err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM pulses WHERE id = ? AND source_path = ?`,
		rec.ID, strings.TrimSpace(rec.SourcePath))
	stored, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("reload pulse %s: %w", rec.ID, err)
	}
	return stored, nil
}

// Get fetches the first pulse with the given ID, ordered by name and source
// path. A missing pulse returns nil without error.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	records, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Find returns every pulse stored under id.
func (s *Store) Find(ctx context.Context, id string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM pulses WHERE id = ? ORDER BY name, source_path`, id)
	if err != nil {
		return nil, fmt.Errorf("find pulse %s: %w", id, err)
	}
	return collectRecords(rows)
}

// List returns all pulses ordered by name.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM pulses ORDER BY name, id, source_path`)
	if err != nil {
		return nil, fmt.Errorf("list pulses: %w", err)
	}
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pulse: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pulses: %w", err)
	}
	return records, nil
}

// Remove deletes every pulse stored under id and returns how many rows went.
func (s *Store) Remove(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pulses WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("remove pulse: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Clear removes every pulse and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pulses`)
	if err != nil {
		return 0, fmt.Errorf("clear pulses: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored pulses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM pulses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pulses: %w", err)
	}
	return count, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec          Record
		waveformJSON string
		framesJSON   string
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Name,
		&rec.SourcePath,
		&rec.URL,
		&waveformJSON,
		&framesJSON,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(waveformJSON), &rec.Waveform); err != nil {
		return nil, fmt.Errorf("decode waveform for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(framesJSON), &rec.Frames); err != nil {
		return nil, fmt.Errorf("decode frames for %s: %w", rec.ID, err)
	}
	rec.CreatedAt = parseTime(createdRaw)
	rec.UpdatedAt = parseTime(updatedRaw)
	return &rec, nil
}

func parseTime(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
