package main

import (
	"path/filepath"
	"strings"
	"testing"

	"clg/internal/change"
	"clg/internal/connect"
	"clg/internal/extract"
	"clg/internal/impact"
	"clg/internal/lineage"
	"clg/internal/testutil"
)

func fixtureGraph() *lineage.Graph {
	snap := &extract.Snapshot{
		Endpoints: []extract.Endpoint{
			{ID: "ep-1", File: "server/users.go", Method: "GET", Path: "/api/users", Handler: "listUsers", Line: 10},
		},
		Queries: []extract.DatabaseQuery{
			{ID: "q-1", File: "server/users.go", Function: "listUsers", Type: "select", Table: "users", Line: 20},
		},
		Tables: []extract.Table{{Name: "users"}},
	}
	return lineage.NewBuilder(connect.DefaultWeights(), nil).Build(snap)
}

func TestFormatGraphHumanGolden(t *testing.T) {
	out, err := FormatResponse(fixtureGraph(), FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}
	testutil.CompareGolden(t, filepath.Join("testdata", "graph_human.golden"), []byte(out))
}

func TestFormatAnalysisHumanGolden(t *testing.T) {
	analysis := &impact.Analysis{
		RequestID:  "change-1",
		ChangeType: change.ModifyAPI,
		AffectedNodes: []impact.AffectedNode{
			{ID: "endpoint:GET /api/users", Layer: lineage.LayerBackend, ImpactType: impact.ImpactDirect, Severity: impact.SeverityMedium, Depth: 1},
		},
		AffectedFiles: []string{"db/schema.sql", "server/users.go", "src/api.ts"},
		BreakingChanges: []impact.BreakingChange{
			{
				Type:        impact.BreakingAPIResponse,
				Severity:    impact.SeverityHigh,
				File:        "server/users.go",
				Description: "Response shape of GET /api/users may change; frontend callers must be updated",
				Migration:   "Version the endpoint or update all callers before deploying",
			},
		},
		Recommendations: []impact.Recommendation{
			{Type: impact.RecommendReview, Priority: change.PriorityHigh, Message: "1 breaking change(s) predicted; request review from owners of the affected files"},
			{Type: impact.RecommendMigration, Priority: change.PriorityHigh, Message: "Plan a migration path for consumers before merging"},
		},
		AffectedTests: []string{"server/users_test.go"},
		Summary: impact.Summary{
			TotalAffectedNodes:   4,
			TotalAffectedFiles:   3,
			TotalBreakingChanges: 1,
			EstimatedComplexity:  impact.ComplexityLow,
			EstimatedHours:       10,
		},
	}

	out, err := FormatResponse(analysis, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}
	testutil.CompareGolden(t, filepath.Join("testdata", "analysis_human.golden"), []byte(out))
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatResponse(fixtureGraph(), FormatJSON)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}
	if !strings.Contains(out, `"nodeCount": 3`) {
		t.Errorf("expected metadata in JSON output, got %s", out)
	}

	again, err := FormatResponse(fixtureGraph(), FormatJSON)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}
	if out != again {
		t.Error("expected deterministic JSON output")
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, err := FormatResponse(fixtureGraph(), "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
