package store

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	// Postgres driver registered as "pgx" for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// dialect captures what differs between the SQLite and Postgres backends.
// Repositories only see the squirrel builder it produces.
type dialect struct {
	name         string
	driver       string
	placeholder  sq.PlaceholderFormat
	schema       []string
	seedSequence string
	configure    func(*sql.DB) error
}

func (d dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.placeholder)
}

var sqliteDialect = dialect{
	name:         "sqlite",
	driver:       "sqlite",
	placeholder:  sq.Question,
	schema:       schemaFor("INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER NOT NULL DEFAULT 0"),
	seedSequence: `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
	configure: func(db *sql.DB) error {
		// SQLite allows a single writer; one connection keeps pragmas and
		// in-memory databases consistent across queries.
		db.SetMaxOpenConns(1)
		return applyPragmas(db)
	},
}

var postgresDialect = dialect{
	name:         "postgres",
	driver:       "pgx",
	placeholder:  sq.Dollar,
	schema:       schemaFor("BIGSERIAL PRIMARY KEY", "BOOLEAN NOT NULL DEFAULT FALSE"),
	seedSequence: `INSERT INTO global_sequence (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`,
	configure: func(db *sql.DB) error {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		return nil
	},
}

// IsPostgresDSN reports whether dsn addresses a Postgres server rather
// than a SQLite file.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func dialectFor(dsn string) dialect {
	if IsPostgresDSN(dsn) {
		return postgresDialect
	}
	return sqliteDialect
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func schemaFor(idColumn, boolColumn string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS global_sequence (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			next_val BIGINT  NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS llm_request_events (
			id            ` + idColumn + `,
			sequence      BIGINT  NOT NULL UNIQUE,
			timestamp     TEXT    NOT NULL,
			request_id    TEXT    NOT NULL DEFAULT '',
			provider      TEXT    NOT NULL DEFAULT '',
			model         TEXT    NOT NULL DEFAULT '',
			purpose       TEXT    NOT NULL DEFAULT '',
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    BIGINT  NOT NULL DEFAULT 0,
			success       ` + boolColumn + `,
			error_message TEXT    NOT NULL DEFAULT '',
			request_body  TEXT    NOT NULL DEFAULT '',
			response_body TEXT    NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events (purpose)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_request_events_request ON llm_request_events (request_id)`,
		`CREATE TABLE IF NOT EXISTS plan_events (
			id            ` + idColumn + `,
			sequence      BIGINT  NOT NULL UNIQUE,
			timestamp     TEXT    NOT NULL,
			request_id    TEXT    NOT NULL,
			student_name  TEXT    NOT NULL DEFAULT '',
			focus_subject TEXT    NOT NULL DEFAULT '',
			source        TEXT    NOT NULL,
			reason        TEXT    NOT NULL DEFAULT '',
			error_message TEXT    NOT NULL DEFAULT '',
			steps         TEXT    NOT NULL DEFAULT '[]',
			latency_ms    BIGINT  NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plan_events_source ON plan_events (source)`,
	}
}
