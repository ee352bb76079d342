// Package store implements the persistent facade over the three-table
// files/tags/file_tags schema: transactional batch insert/delete by
// id/name/path, id recovery after insert, and the store-side query DSL.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/semaphore"
	_ "modernc.org/sqlite"

	"github.com/jra3/tdb/internal/errs"
)

//go:embed schema.sql
var schemaSQL string

// maxConnections caps the store's connection pool at two handles: one
// for the primary request path, one spare for background use. No
// writer overlap is assumed beyond what SQLite's own locking enforces.
const maxConnections = 2

// Store wraps the SQLite-backed tag database.
type Store struct {
	db   *sql.DB
	gate *semaphore.Weighted
}

// Open opens or creates a SQLite database at the given path, enabling
// WAL mode and foreign-key enforcement, and initializing the schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.New("store.Open", errs.KindConnectionPool, fmt.Errorf("create db directory: %w", err))
		}
	}

	escaped := strings.ReplaceAll(dbPath, " ", "%20")
	connStr := "file:" + escaped + "?_time_format=sqlite"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, errs.New("store.Open", errs.KindConnectionPool, fmt.Errorf("open database: %w", err))
	}
	db.SetMaxOpenConns(maxConnections)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errs.New("store.Open", errs.KindConnectionPool, fmt.Errorf("enable WAL mode: %w", err))
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, errs.New("store.Open", errs.KindConnectionPool, fmt.Errorf("enable foreign keys: %w", err))
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errs.New("store.Open", errs.KindStoreTransaction, fmt.Errorf("initialize schema: %w", err))
	}

	return &Store{db: db, gate: semaphore.NewWeighted(maxConnections)}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying *sql.DB for read-only queries built by the
// store-side DSL.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside a transaction wrapping the full unit of work
// (clean, update, convention-enforce). On any error the transaction is
// rolled back and the in-memory state already computed by the caller is
// discarded by ordinary garbage collection.
func (s *Store) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return errs.New("store.WithTx", errs.KindConnectionPool, err)
	}
	defer s.gate.Release(1)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New("store.WithTx", errs.KindConnectionPool, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.New("store.WithTx", errs.KindStoreTransaction, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// DefaultDBPath returns the default database path: $XDG_CONFIG_HOME/tdb/tdb.db
// or ~/.config/tdb/tdb.db.
func DefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, "tdb", "tdb.db")
}
