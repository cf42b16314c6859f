package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

// DB wraps a sql.DB connection to the personal-crm SQLite database.
type DB struct {
	*sql.DB
	Path string
}

// DefaultDBPath returns the default database path: ~/.personal-crm/crm.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".personal-crm", "crm.db"), nil
}

// pragmaDSN appends the connection pragmas to the path. They must ride the
// DSN: database/sql pools connections, and a PRAGMA issued through Exec only
// configures whichever connection served it. Foreign keys in particular have
// to hold on every connection or cascades silently stop.
func pragmaDSN(path string) string {
	return path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"
}

// Open opens (or creates) the SQLite database at the given path, configures
// pragmas, runs migrations, and seeds the interaction-type catalog.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", pragmaDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db := &DB{DB: sqlDB, Path: path}
	if err := db.init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens an in-memory SQLite database for testing. The pool is
// pinned to one connection: each in-memory connection is its own database.
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", pragmaDSN(":memory:"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, Path: ":memory:"}
	if err := db.init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) init() error {
	if err := db.migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := db.SeedInteractionTypes(); err != nil {
		return fmt.Errorf("seed interaction types: %w", err)
	}
	return nil
}

// translateErr maps driver errors into the crmerr taxonomy. SQLite reports
// both uniqueness and foreign-key breaches as constraint failures.
func translateErr(err error, context string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "constraint failed") || strings.Contains(msg, "FOREIGN KEY") {
		return &crmerr.Error{Code: crmerr.ConstraintViolation, Message: context, Err: err}
	}
	return &crmerr.Error{Code: crmerr.StoreUnavailable, Message: context, Err: err}
}
