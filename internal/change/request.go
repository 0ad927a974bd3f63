// Package change normalizes change descriptions, free-text or structured,
// into typed requests that seed impact analysis.
package change

import (
	"clg/internal/lineage"
)

// Type classifies what kind of change is being made.
type Type string

const (
	AddFeature    Type = "add-feature"
	ModifyFeature Type = "modify-feature"
	RemoveFeature Type = "remove-feature"
	ModifyAPI     Type = "modify-api"
	ModifySchema  Type = "modify-schema"
	Refactor      Type = "refactor"
	BugFix        Type = "bug-fix"
	Other         Type = "other"
)

// Valid reports whether t is a declared change type.
func (t Type) Valid() bool {
	switch t {
	case AddFeature, ModifyFeature, RemoveFeature, ModifyAPI, ModifySchema, Refactor, BugFix, Other:
		return true
	}
	return false
}

// Priority ranks the urgency of a change.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a declared priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Request is a normalized change request. After Parser.Normalize every
// field except the optional target lists is populated.
type Request struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Type        Type     `json:"type" yaml:"type" toml:"type"`
	// AffectedAreas is the subset of layers the author expects to touch.
	AffectedAreas []lineage.Layer `json:"affectedAreas" yaml:"affectedAreas" toml:"affectedAreas"`
	Priority      Priority        `json:"priority" yaml:"priority" toml:"priority"`

	TargetFiles      []string `json:"targetFiles,omitempty" yaml:"targetFiles,omitempty" toml:"targetFiles,omitempty"`
	TargetEndpoints  []string `json:"targetEndpoints,omitempty" yaml:"targetEndpoints,omitempty" toml:"targetEndpoints,omitempty"`
	TargetTables     []string `json:"targetTables,omitempty" yaml:"targetTables,omitempty" toml:"targetTables,omitempty"`
	TargetComponents []string `json:"targetComponents,omitempty" yaml:"targetComponents,omitempty" toml:"targetComponents,omitempty"`
}

// AllLayers is the affected-areas default when nothing narrower is known.
func AllLayers() []lineage.Layer {
	return []lineage.Layer{lineage.LayerFrontend, lineage.LayerBackend, lineage.LayerDatabase}
}
