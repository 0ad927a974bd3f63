// Package storage persists analysis runs in a SQLite database under
// .clg/clg.db. The pure analysis core never touches this package; only the
// engine writes to it after an analysis completes.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	clgerrors "clg/internal/errors"
	"clg/internal/logging"
)

// DB wraps the SQLite connection with transaction helpers.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the run store at <repoRoot>/.clg/clg.db, creating
// the schema on first use.
func Open(repoRoot string, logger *logging.Logger) (*DB, error) {
	clgDir := filepath.Join(repoRoot, ".clg")
	if err := os.MkdirAll(clgDir, 0o755); err != nil {
		return nil, clgerrors.Wrap(clgerrors.StorageUnavailable, "failed to create .clg directory", err)
	}

	dbPath := filepath.Join(clgDir, "clg.db")
	dbExists := fileExists(dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, clgerrors.Wrap(clgerrors.StorageUnavailable, "failed to open run store", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, clgerrors.Wrap(clgerrors.StorageUnavailable, fmt.Sprintf("failed to set pragma %q", pragma), err)
		}
	}

	db := &DB{conn: conn, logger: logger, dbPath: dbPath}

	if !dbExists {
		logger.Info("Creating run store", map[string]interface{}{"path": dbPath})
		if err := db.initializeSchema(); err != nil {
			_ = conn.Close()
			return nil, clgerrors.Wrap(clgerrors.StorageUnavailable, "failed to initialize schema", err)
		}
	} else if err := db.runMigrations(); err != nil {
		_ = conn.Close()
		return nil, clgerrors.Wrap(clgerrors.StorageUnavailable, "failed to run migrations", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// WithTx runs fn inside a transaction, rolling back on error.
func (db *DB) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
