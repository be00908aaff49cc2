package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then need to delete the history database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// poolconv version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Attempt statuses recorded in the ledger.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Attempt is one recorded conversion attempt.
type Attempt struct {
	AttemptID    string
	BaseName     string
	SourcePath   string
	OutputPath   string
	Codec        string
	HWAccel      string
	Status       string
	ErrorExcerpt string
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database under dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "history.db")
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
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record inserts attempt into the ledger. A missing attempt ID or timestamp
// is filled in.
func (s *Store) Record(ctx context.Context, attempt Attempt) (string, error) {
	if attempt.AttemptID == "" {
		attempt.AttemptID = uuid.NewString()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (
            attempt_id, base_name, source_path, output_path, codec, hwaccel,
            status, error_excerpt, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.AttemptID,
		attempt.BaseName,
		attempt.SourcePath,
		nullableString(attempt.OutputPath),
		nullableString(attempt.Codec),
		nullableString(attempt.HWAccel),
		attempt.Status,
		nullableString(attempt.ErrorExcerpt),
		attempt.Duration.Milliseconds(),
		attempt.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert attempt: %w", err)
	}
	return attempt.AttemptID, nil
}

// DefaultRecentLimit is the number of attempts Recent returns when no limit
// is given.
const DefaultRecentLimit = 50

// Recent returns up to limit attempts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT attempt_id, base_name, source_path, output_path, codec, hwaccel,
                status, error_excerpt, duration_ms, created_at
         FROM attempts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func scanAttempt(scanner interface{ Scan(dest ...any) error }) (Attempt, error) {
	var (
		attempt      Attempt
		outputPath   sql.NullString
		codec        sql.NullString
		hwMode       sql.NullString
		errorExcerpt sql.NullString
		durationMS   int64
		createdAt    string
	)
	if err := scanner.Scan(
		&attempt.AttemptID,
		&attempt.BaseName,
		&attempt.SourcePath,
		&outputPath,
		&codec,
		&hwMode,
		&attempt.Status,
		&errorExcerpt,
		&durationMS,
		&createdAt,
	); err != nil {
		return Attempt{}, fmt.Errorf("scan attempt: %w", err)
	}

	attempt.OutputPath = outputPath.String
	attempt.Codec = codec.String
	attempt.HWAccel = hwMode.String
	attempt.ErrorExcerpt = errorExcerpt.String
	attempt.Duration = time.Duration(durationMS) * time.Millisecond
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		attempt.CreatedAt = parsed
	}
	return attempt, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
