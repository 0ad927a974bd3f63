package change

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	clgerrors "clg/internal/errors"
	"clg/internal/lineage"
)

func TestParseEmptyDescription(t *testing.T) {
	p := NewParser()
	for _, desc := range []string{"", "   ", "\t\n"} {
		if _, err := p.Parse(desc); err == nil {
			t.Errorf("expected error for description %q", desc)
		} else if !clgerrors.HasCode(err, clgerrors.ChangeRequestInvalid) {
			t.Errorf("expected CHANGE_REQUEST_INVALID for %q, got %v", desc, err)
		}
	}
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name        string
		description string
		changeType  Type
		priority    Priority
		areas       []lineage.Layer
	}{
		{
			name:        "endpoint keyword wins",
			description: "update the users endpoint to paginate",
			changeType:  ModifyAPI,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "api beats add",
			description: "add a field to the api response",
			changeType:  ModifyAPI,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "schema keyword",
			description: "change the orders schema",
			changeType:  ModifySchema,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "database keyword infers database area",
			description: "tune the database connection pool",
			changeType:  ModifySchema,
			priority:    PriorityMedium,
			areas:       []lineage.Layer{lineage.LayerDatabase},
		},
		{
			name:        "component keyword",
			description: "restyle the checkout component",
			changeType:  ModifyFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "add feature",
			description: "introduce a new login flow",
			changeType:  AddFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "remove feature",
			description: "drop the legacy export, remove its cron job",
			changeType:  RemoveFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "bug fix is critical",
			description: "fix the checkout total bug",
			changeType:  BugFix,
			priority:    PriorityCritical,
			areas:       AllLayers(),
		},
		{
			name:        "explicit urgency",
			description: "urgent: rotate the signing keys in the backend",
			changeType:  ModifyFeature,
			priority:    PriorityCritical,
			areas:       []lineage.Layer{lineage.LayerBackend},
		},
		{
			name:        "low priority",
			description: "nice-to-have: tweak frontend spacing",
			changeType:  ModifyFeature,
			priority:    PriorityLow,
			areas:       []lineage.Layer{lineage.LayerFrontend},
		},
		{
			name:        "no keyword defaults to modify-feature",
			description: "rework the pricing logic",
			changeType:  ModifyFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "flow does not read as low priority",
			description: "streamline the signup flow for slower devices",
			changeType:  ModifyFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "rapid does not read as api",
			description: "rapid rollout of the cache warmer",
			changeType:  ModifyFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "padding does not read as add",
			description: "increase the padding on the banner",
			changeType:  ModifyFeature,
			priority:    PriorityMedium,
			areas:       AllLayers(),
		},
		{
			name:        "hyphenated words match by part",
			description: "resolve the bug-fix backlog in the backend",
			changeType:  BugFix,
			priority:    PriorityCritical,
			areas:       []lineage.Layer{lineage.LayerBackend},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := p.Parse(tt.description)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if req.Type != tt.changeType {
				t.Errorf("expected type %s, got %s", tt.changeType, req.Type)
			}
			if req.Priority != tt.priority {
				t.Errorf("expected priority %s, got %s", tt.priority, req.Priority)
			}
			if len(req.AffectedAreas) != len(tt.areas) {
				t.Fatalf("expected areas %v, got %v", tt.areas, req.AffectedAreas)
			}
			for i, a := range tt.areas {
				if req.AffectedAreas[i] != a {
					t.Errorf("area %d: expected %s, got %s", i, a, req.AffectedAreas[i])
				}
			}
			if !strings.HasPrefix(req.ID, "change-") {
				t.Errorf("expected generated change id, got %q", req.ID)
			}
		})
	}
}

func TestParseTargetExtraction(t *testing.T) {
	p := NewParser()
	req, err := p.Parse("update endpoint:/api/users and table:users, touch file:src/api.ts (component:UserList)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(req.TargetEndpoints) != 1 || req.TargetEndpoints[0] != "/api/users" {
		t.Errorf("unexpected endpoints %v", req.TargetEndpoints)
	}
	if len(req.TargetTables) != 1 || req.TargetTables[0] != "users" {
		t.Errorf("unexpected tables %v", req.TargetTables)
	}
	if len(req.TargetFiles) != 1 || req.TargetFiles[0] != "src/api.ts" {
		t.Errorf("unexpected files %v", req.TargetFiles)
	}
	if len(req.TargetComponents) != 1 || req.TargetComponents[0] != "UserList" {
		t.Errorf("unexpected components %v", req.TargetComponents)
	}
}

func TestParseTargetDeduplication(t *testing.T) {
	p := NewParser()
	req, err := p.Parse("migrate table:users then backfill table:users")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(req.TargetTables) != 1 {
		t.Errorf("expected deduplicated targets, got %v", req.TargetTables)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p := NewParser()
	req := &Request{Description: "adjust rate limiting"}

	if err := p.Normalize(req); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if req.ID == "" {
		t.Error("expected a generated id")
	}
	if req.Type != ModifyFeature {
		t.Errorf("expected default type modify-feature, got %s", req.Type)
	}
	if len(req.AffectedAreas) != 3 {
		t.Errorf("expected all layers by default, got %v", req.AffectedAreas)
	}
	if req.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %s", req.Priority)
	}
}

func TestNormalizeKeepsExplicitFields(t *testing.T) {
	p := NewParser()
	req := &Request{
		ID:            "change-42",
		Description:   "drop the email column",
		Type:          ModifySchema,
		AffectedAreas: []lineage.Layer{lineage.LayerDatabase},
		Priority:      PriorityHigh,
		TargetTables:  []string{"users"},
	}

	if err := p.Normalize(req); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if req.ID != "change-42" || req.Type != ModifySchema || req.Priority != PriorityHigh {
		t.Errorf("explicit fields were overwritten: %+v", req)
	}
	if len(req.TargetTables) != 1 || req.TargetTables[0] != "users" {
		t.Errorf("explicit targets were lost: %v", req.TargetTables)
	}
}

func TestNormalizeMissingDescription(t *testing.T) {
	p := NewParser()

	if err := p.Normalize(nil); err == nil {
		t.Error("expected error for nil request")
	}
	if err := p.Normalize(&Request{ID: "change-1"}); err == nil {
		t.Error("expected error for empty description")
	} else if !clgerrors.HasCode(err, clgerrors.ChangeRequestInvalid) {
		t.Errorf("expected CHANGE_REQUEST_INVALID, got %v", err)
	}
}

func TestLoadRequest(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "change.json",
			content: `{"description": "drop the email column", "type": "modify-schema", "targetTables": ["users"]}`,
		},
		{
			name: "yaml",
			file: "change.yaml",
			content: `description: drop the email column
type: modify-schema
targetTables:
  - users
`,
		},
		{
			name: "toml",
			file: "change.toml",
			content: `description = "drop the email column"
type = "modify-schema"
targetTables = ["users"]
`,
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write request file: %v", err)
			}

			req, err := p.LoadRequest(path)
			if err != nil {
				t.Fatalf("LoadRequest failed: %v", err)
			}
			if req.Type != ModifySchema {
				t.Errorf("expected modify-schema, got %s", req.Type)
			}
			if len(req.TargetTables) != 1 || req.TargetTables[0] != "users" {
				t.Errorf("unexpected target tables %v", req.TargetTables)
			}
			if req.ID == "" {
				t.Error("expected normalization to assign an id")
			}
		})
	}
}

func TestLoadRequestMissingFile(t *testing.T) {
	p := NewParser()
	_, err := p.LoadRequest(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing request file")
	}
	if !clgerrors.HasCode(err, clgerrors.ChangeRequestInvalid) {
		t.Errorf("expected CHANGE_REQUEST_INVALID, got %v", err)
	}
}
