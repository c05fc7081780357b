package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"medialift/internal/faults"
	"medialift/internal/pipeline"
)

// Status values stored for runs that have not finished.
const StatusRunning = "running"

// Run is one recorded invocation of the pipeline.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Inputs     []string
	OutputDir  string
	Status     string
	Error      string
	Files      int
	Transcoded int
	Linked     int
	Fresh      int
	Planned    int
	Failed     int
}

// Duration returns the wall time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ArtifactRecord is one written artifact.
type ArtifactRecord struct {
	RunID    string
	Source   string
	Dest     string
	Kind     string
	Action   string
	Duration time.Duration
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "history", "open", "database path not set", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "history", "open", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a run row in the running state.
func (s *Store) StartRun(ctx context.Context, id string, inputs []string, outputDir string, started time.Time) error {
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return fmt.Errorf("marshal inputs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, inputs_json, output_dir, status) VALUES (?, ?, ?, ?, ?)`,
		id,
		started.UTC().Format(time.RFC3339Nano),
		string(inputsJSON),
		outputDir,
		StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordArtifact appends one artifact row to a run.
func (s *Store) RecordArtifact(ctx context.Context, ev pipeline.ArtifactEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (run_id, source, dest, kind, action, duration_ms, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID,
		ev.Source.Path,
		ev.Artifact.Dest,
		ev.Artifact.Kind.String(),
		ev.Action.String(),
		ev.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and status of a run.
func (s *Store) FinishRun(ctx context.Context, id string, stats pipeline.Stats, runErr error, finished time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET finished_at = ?, status = ?, error = ?, files = ?, transcoded = ?,
             linked = ?, fresh = ?, planned = ?, failed = ?
         WHERE id = ?`,
		finished.UTC().Format(time.RFC3339Nano),
		faults.Label(runErr),
		nullableError(runErr),
		stats.Files,
		stats.Transcoded,
		stats.Linked+stats.Copied,
		stats.Fresh,
		stats.Planned,
		stats.FailedFiles,
		id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get fetches one run by identifier. It returns nil when the run is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Artifacts returns the artifacts recorded for a run in insertion order.
func (s *Store) Artifacts(ctx context.Context, runID string) ([]ArtifactRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source, dest, kind, action, duration_ms FROM artifacts WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var records []ArtifactRecord
	for rows.Next() {
		var (
			rec        ArtifactRecord
			durationMs int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Source, &rec.Dest, &rec.Kind, &rec.Action, &durationMs); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return records, nil
}

const runColumns = "id, started_at, finished_at, inputs_json, output_dir, status, error, files, transcoded, linked, fresh, planned, failed"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		inputsRaw   string
		errorRaw    sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&inputsRaw,
		&run.OutputDir,
		&run.Status,
		&errorRaw,
		&run.Files,
		&run.Transcoded,
		&run.Linked,
		&run.Fresh,
		&run.Planned,
		&run.Failed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.Error = errorRaw.String
	if err := json.Unmarshal([]byte(inputsRaw), &run.Inputs); err != nil {
		return run, fmt.Errorf("decode inputs for run %s: %w", run.ID, err)
	}
	return run, nil
}

func parseTime(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableError(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
