package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultLimit bounds Recent when the caller passes a non-positive limit.
const DefaultLimit = 20

// Entry is a single recorded compile.
type Entry struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Story      string    `json:"story"`
	Release    string    `json:"release"`
	Serial     string    `json:"serial"`
	Stage      string    `json:"stage"`
	Language   string    `json:"language,omitempty"`
	MD5        string    `json:"md5"`
	Size       int64     `json:"size_bytes"`
	JSPath     string    `json:"js_path,omitempty"`
	CompiledAt time.Time `json:"compiled_at"`
}

// Store manages build history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

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
	if err := store.applyMigrations(context.Background(), migrationFS); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a build entry and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.Story) == "" {
		return Entry{}, errors.New("record build: story path is empty")
	}
	if entry.CompiledAt.IsZero() {
		entry.CompiledAt = time.Now()
	}
	entry.CompiledAt = entry.CompiledAt.UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO builds (
            run_id, source_path, story_path, release, serial, stage,
            language, md5, size_bytes, js_path, compiled_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Source,
		entry.Story,
		entry.Release,
		entry.Serial,
		entry.Stage,
		nullableString(entry.Language),
		entry.MD5,
		entry.Size,
		nullableString(entry.JSPath),
		entry.CompiledAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Recent returns the newest entries first. A non-empty source restricts the
// result to builds of that source file.
func (s *Store) Recent(ctx context.Context, limit int, source string) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := "SELECT " + entryColumns + " FROM builds"
	args := []any{}
	if source = strings.TrimSpace(source); source != "" {
		query += " WHERE source_path = ?"
		args = append(args, source)
	}
	query += " ORDER BY compiled_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return entries, nil
}

const entryColumns = "id, run_id, source_path, story_path, release, serial, stage, language, md5, size_bytes, js_path, compiled_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		language    sql.NullString
		jsPath      sql.NullString
		compiledRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Source,
		&entry.Story,
		&entry.Release,
		&entry.Serial,
		&entry.Stage,
		&language,
		&entry.MD5,
		&entry.Size,
		&jsPath,
		&compiledRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan build: %w", err)
	}
	entry.Language = language.String
	entry.JSPath = jsPath.String
	if ts, err := time.Parse(time.RFC3339Nano, compiledRaw); err == nil {
		entry.CompiledAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
