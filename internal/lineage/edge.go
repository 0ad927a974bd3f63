package lineage

import "fmt"

// EdgeKind is the typed discriminator for graph edges.
type EdgeKind string

const (
	EdgeAPICall    EdgeKind = "api-call"
	EdgeQuery      EdgeKind = "database-query"
	EdgeDataFlow   EdgeKind = "data-flow"
	EdgeNavigation EdgeKind = "navigation"
	EdgeDependency EdgeKind = "dependency"
)

// Valid reports whether k is one of the declared edge kinds.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeAPICall, EdgeQuery, EdgeDataFlow, EdgeNavigation, EdgeDependency:
		return true
	}
	return false
}

// Edge connects two nodes with a heuristic confidence in [0,1].
// Schema-verified edges (query to table) carry confidence 1.0.
type Edge struct {
	ID         string                 `json:"id"`
	From       NodeID                 `json:"from"`
	To         NodeID                 `json:"to"`
	Kind       EdgeKind               `json:"type"`
	Confidence float64                `json:"confidence"`
	Label      string                 `json:"label,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// MakeEdgeID builds a deterministic edge id from kind and endpoints.
func MakeEdgeID(kind EdgeKind, from, to NodeID) string {
	return fmt.Sprintf("%s:%s->%s", kind, from, to)
}
