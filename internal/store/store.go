package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	seq     *sequenceCounter
	dialect dialect
}

// Open creates a new Store. dsn is a SQLite file path (or ":memory:") or a
// postgres:// URL. Missing tables are created.
func Open(dsn string) (*Store, error) {
	d := dialectFor(dsn)

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := d.configure(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure %s: %w", d.name, err)
	}

	if err := migrate(context.Background(), db, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db, d.seedSequence)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq, dialect: d}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Backend returns "sqlite" or "postgres".
func (s *Store) Backend() string {
	return s.dialect.name
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq, sb: s.dialect.builder()}
}

func migrate(ctx context.Context, db *sql.DB, schema []string) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SCORECARD_DB environment variable
// 2. $XDG_DATA_HOME/scorecard/scorecard.db
// 3. ~/.local/share/scorecard/scorecard.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SCORECARD_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "scorecard", "scorecard.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
// Postgres URLs and in-memory databases have no directory.
func EnsureDir(path string) error {
	if IsPostgresDSN(path) || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
