package engine

import (
	"os"
	"path/filepath"
	"testing"

	"clg/internal/change"
	"clg/internal/config"
)

const snapshotJSON = `{
	"repository": "shop",
	"apiCalls": [
		{"id": "call-1", "file": "src/api.ts", "method": "GET", "url": "/api/users", "line": 12}
	],
	"endpoints": [
		{"id": "ep-1", "file": "server/users.go", "method": "GET", "path": "/api/users", "handler": "listUsers", "line": 10}
	],
	"queries": [
		{"id": "q-1", "file": "server/users.go", "function": "listUsers", "type": "select", "table": "users", "line": 20}
	],
	"tables": [
		{"name": "users", "file": "db/schema.sql"}
	],
	"testFiles": [
		{"path": "server/users_test.go", "covers": ["server/users.go"]}
	]
}`

func newTestEngine(t *testing.T, storageEnabled bool) (*Engine, string) {
	t.Helper()

	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "facts.json")
	if err := os.WriteFile(snapshotPath, []byte(snapshotJSON), 0o644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	cfg := config.Default()
	cfg.RepoRoot = dir
	cfg.Storage.Enabled = storageEnabled

	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng, snapshotPath
}

func TestBuildGraph(t *testing.T) {
	eng, snapshotPath := newTestEngine(t, false)

	graph, snap, err := eng.BuildGraph(snapshotPath)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	if snap.Repository != "shop" {
		t.Errorf("unexpected repository %q", snap.Repository)
	}
	if len(graph.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Edges) != 3 {
		t.Errorf("expected 3 edges, got %d", len(graph.Edges))
	}
}

func TestAnalyzeImpactPipeline(t *testing.T) {
	eng, snapshotPath := newTestEngine(t, true)

	req := &change.Request{
		ID:              "change-1",
		Description:     "change the users endpoint response",
		Type:            change.ModifyAPI,
		TargetEndpoints: []string{"/api/users"},
	}

	analysis, err := eng.AnalyzeImpact(snapshotPath, req)
	if err != nil {
		t.Fatalf("AnalyzeImpact failed: %v", err)
	}

	if analysis.RequestID != "change-1" {
		t.Errorf("unexpected request id %q", analysis.RequestID)
	}
	if len(analysis.AffectedNodes) != 4 {
		t.Errorf("expected the whole chain affected, got %d nodes", len(analysis.AffectedNodes))
	}
	if len(analysis.BreakingChanges) != 1 {
		t.Errorf("expected one breaking change, got %d", len(analysis.BreakingChanges))
	}
	// Coverage augmentation ran: the covering test was joined in.
	if len(analysis.AffectedTests) != 1 || analysis.AffectedTests[0] != "server/users_test.go" {
		t.Errorf("expected coverage join, got %v", analysis.AffectedTests)
	}

	runs, err := eng.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one persisted run, got %d", len(runs))
	}
	if runs[0].ChangeRequestID != "change-1" || runs[0].ChangeType != "modify-api" {
		t.Errorf("unexpected persisted run %+v", runs[0])
	}
	if runs[0].NodeCount != 4 || runs[0].EdgeCount != 3 {
		t.Errorf("unexpected graph counts on run %+v", runs[0])
	}
}

func TestAnalyzeImpactCaches(t *testing.T) {
	eng, snapshotPath := newTestEngine(t, true)

	req := &change.Request{
		ID:          "change-2",
		Description: "broad refactor",
		Type:        change.Refactor,
	}

	first, err := eng.AnalyzeImpact(snapshotPath, req)
	if err != nil {
		t.Fatalf("AnalyzeImpact failed: %v", err)
	}
	second, err := eng.AnalyzeImpact(snapshotPath, req)
	if err != nil {
		t.Fatalf("AnalyzeImpact failed: %v", err)
	}

	if first != second {
		t.Error("expected the cached analysis instance on the second run")
	}

	// The cache hit short-circuits before persistence.
	runs, err := eng.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected a single persisted run, got %d", len(runs))
	}
}

func TestAnalyzeImpactNormalizes(t *testing.T) {
	eng, snapshotPath := newTestEngine(t, false)

	req := &change.Request{Description: "tidy up the sorting helpers"}
	analysis, err := eng.AnalyzeImpact(snapshotPath, req)
	if err != nil {
		t.Fatalf("AnalyzeImpact failed: %v", err)
	}

	if req.ID == "" {
		t.Error("expected normalization to assign a request id")
	}
	if analysis.ChangeType != change.ModifyFeature {
		t.Errorf("expected defaulted change type, got %s", analysis.ChangeType)
	}
}

func TestListRunsWithoutStore(t *testing.T) {
	eng, _ := newTestEngine(t, false)

	runs, err := eng.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if runs != nil {
		t.Errorf("expected nil runs without a store, got %v", runs)
	}
}
