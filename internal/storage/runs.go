package storage

import (
	"database/sql"
	"fmt"
	"time"

	clgerrors "clg/internal/errors"
)

// Run is one persisted analysis run: the graph's metadata and the full
// analysis result, keyed by snapshot fingerprint.
type Run struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"createdAt"`
	SnapshotFingerprint string    `json:"snapshotFingerprint"`
	ChangeRequestID     string    `json:"changeRequestId"`
	ChangeType          string    `json:"changeType"`
	NodeCount           int       `json:"nodeCount"`
	EdgeCount           int       `json:"edgeCount"`
	MetadataJSON        string    `json:"-"`
	AnalysisJSON        string    `json:"-"`
}

// SaveRun persists one analysis run.
func (db *DB) SaveRun(run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.Exec(`
		INSERT INTO runs (
			id, created_at, snapshot_fingerprint, change_request_id,
			change_type, node_count, edge_count, metadata_json, analysis_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339),
		run.SnapshotFingerprint,
		run.ChangeRequestID,
		run.ChangeType,
		run.NodeCount,
		run.EdgeCount,
		run.MetadataJSON,
		run.AnalysisJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	db.logger.Debug("Saved analysis run", map[string]interface{}{
		"run":         run.ID,
		"fingerprint": run.SnapshotFingerprint,
	})
	return nil
}

// GetRun loads a run by id.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.conn.QueryRow(`
		SELECT id, created_at, snapshot_fingerprint, change_request_id,
		       change_type, node_count, edge_count, metadata_json, analysis_json
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, clgerrors.Newf(clgerrors.RunNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(`
		SELECT id, created_at, snapshot_fingerprint, change_request_id,
		       change_type, node_count, edge_count, metadata_json, analysis_json
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(
		&run.ID, &createdAt, &run.SnapshotFingerprint, &run.ChangeRequestID,
		&run.ChangeType, &run.NodeCount, &run.EdgeCount,
		&run.MetadataJSON, &run.AnalysisJSON,
	); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at on run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	return &run, nil
}
