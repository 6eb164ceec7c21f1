package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is the run archive. Each successful extraction is one row in runs.
type DB struct {
	*sql.DB
	Path string
}

// connPragmas are applied by the driver to every pooled connection.
// foreign_keys is per-connection state, and the run_messages cascade
// depends on it.
var connPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// DefaultDBPath returns the default archive path: ~/.monologue/monologue.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".monologue", "monologue.db"), nil
}

// Open opens (or creates) the archive at path and migrates it. An empty
// path means DefaultDBPath.
func Open(path string) (*DB, error) {
	if path == "" {
		var err error
		if path, err = DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return open(dsn(path), path, 0)
}

// OpenMemory opens an in-memory archive for tests.
func OpenMemory() (*DB, error) {
	// Every connection to ":memory:" is a separate database.
	return open(dsn(":memory:"), ":memory:", 1)
}

func dsn(path string) string {
	q := url.Values{"_pragma": connPragmas}
	return "file:" + path + "?" + q.Encode()
}

func open(dataSource, path string, maxConns int) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}

	db := &DB{DB: sqlDB, Path: path}
	if err := db.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
