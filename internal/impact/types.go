// Package impact answers "what breaks if I make change X" against one
// lineage graph snapshot. Analysis is a pure derivation: it never mutates
// the graph and produces fresh output structures per run.
package impact

import (
	"clg/internal/change"
	"clg/internal/lineage"
)

// ImpactType distinguishes seed nodes from nodes reached by traversal.
type ImpactType string

const (
	ImpactDirect   ImpactType = "direct"
	ImpactIndirect ImpactType = "indirect"
)

// Severity grades an affected node or breaking change.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AffectedNode is one graph node implicated by a change.
type AffectedNode struct {
	ID         lineage.NodeID `json:"id"`
	Layer      lineage.Layer  `json:"layer"`
	ImpactType ImpactType     `json:"impactType"`
	Severity   Severity       `json:"severity"`
	// Depth is fixed at 1 for every node. True hop-distance propagation is
	// a known limitation kept for output compatibility; consumers treat
	// this field as a constant.
	Depth int `json:"depth"`
}

// BreakingChangeType classifies a predicted breaking change.
type BreakingChangeType string

const (
	BreakingAPIResponse  BreakingChangeType = "api-response-changed"
	BreakingSchemaColumn BreakingChangeType = "schema-column-removed"
	BreakingTypeMismatch BreakingChangeType = "type-incompatibility"
)

// BreakingChange is a structurally significant modification expected to
// require consumer-side updates.
type BreakingChange struct {
	Type        BreakingChangeType `json:"type"`
	Severity    Severity           `json:"severity"`
	File        string             `json:"file,omitempty"`
	Description string             `json:"description"`
	Migration   string             `json:"migration,omitempty"`
}

// RecommendationType classifies a recommendation.
type RecommendationType string

const (
	RecommendReview      RecommendationType = "review-required"
	RecommendMigration   RecommendationType = "migration"
	RecommendRefactor    RecommendationType = "refactor"
	RecommendBackupDB    RecommendationType = "backup-database"
	RecommendUpdateTests RecommendationType = "update-tests"
)

// Recommendation is a prioritized follow-up action.
type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Priority change.Priority    `json:"priority"`
	Message  string             `json:"message"`
}

// Complexity grades the overall size of a change.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Summary aggregates the analysis into counts and an effort estimate.
type Summary struct {
	TotalAffectedNodes   int        `json:"totalAffectedNodes"`
	TotalAffectedFiles   int        `json:"totalAffectedFiles"`
	TotalBreakingChanges int        `json:"totalBreakingChanges"`
	EstimatedComplexity  Complexity `json:"estimatedComplexity"`
	// EstimatedHours = 2 x affected files + 4 x breaking changes.
	EstimatedHours int `json:"estimatedHours"`
}

// Analysis is the complete result of one impact analysis run.
type Analysis struct {
	RequestID       string           `json:"requestId"`
	ChangeType      change.Type      `json:"changeType"`
	AffectedNodes   []AffectedNode   `json:"affectedNodes"`
	AffectedFiles   []string         `json:"affectedFiles"`
	BreakingChanges []BreakingChange `json:"breakingChanges"`
	Recommendations []Recommendation `json:"recommendations"`
	AffectedTests   []string         `json:"affectedTests,omitempty"`
	Summary         Summary          `json:"summary"`
}
