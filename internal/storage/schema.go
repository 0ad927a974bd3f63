package storage

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}

		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				created_at TEXT NOT NULL,
				snapshot_fingerprint TEXT NOT NULL,
				change_request_id TEXT NOT NULL,
				change_type TEXT NOT NULL,
				node_count INTEGER NOT NULL,
				edge_count INTEGER NOT NULL,
				metadata_json TEXT NOT NULL,
				analysis_json TEXT NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("failed to create runs table: %w", err)
		}

		if _, err := tx.Exec(`
			CREATE INDEX IF NOT EXISTS idx_runs_fingerprint
			ON runs(snapshot_fingerprint)
		`); err != nil {
			return fmt.Errorf("failed to create runs index: %w", err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		db.logger.Info("Run store schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})
		return nil
	})
}

func (db *DB) runMigrations() error {
	var version int
	err := db.conn.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version == currentSchemaVersion {
		return nil
	}

	db.logger.Info("Migrating run store", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Migrations are applied sequentially as the schema evolves.
	return nil
}
