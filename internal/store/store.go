package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the SQLite connection backing the LLM request log.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() *EventRepo {
	return &EventRepo{db: s.db}
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// llmEventsSchema describes the request log table for the ent migrator.
func llmEventsSchema() *schema.Table {
	t := schema.NewTable(llmEventsTable).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt64, Increment: true}).
		AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "provider", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "model", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "purpose", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0}).
		AddColumn(&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0}).
		AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
		AddColumn(&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""})
	for _, col := range []string{"purpose", "model", "success"} {
		t.AddIndex(llmEventsTable+"_"+col, false, []string{col})
	}
	return t
}

// migrate creates missing tables, columns and indexes. It never drops.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	if err := m.Create(ctx, llmEventsSchema()); err != nil {
		return fmt.Errorf("create %s: %w", llmEventsTable, err)
	}
	return nil
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

// DefaultDBPath returns $XDG_DATA_HOME/lezen/requests.db, falling back to
// ~/.local/share/lezen/requests.db, and creates its directory.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lezen", "requests.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
