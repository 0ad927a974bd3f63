// Package lineage holds the cross-layer lineage graph: nodes for frontend,
// backend, and database artifacts, confidence-scored edges connecting them,
// and aggregate metadata over the assembled graph.
package lineage

import "fmt"

// Layer identifies which architectural layer a node belongs to.
type Layer string

const (
	LayerFrontend Layer = "frontend"
	LayerBackend  Layer = "backend"
	LayerDatabase Layer = "database"
)

// NodeKind is the typed discriminator for graph nodes. Each kind belongs to
// exactly one layer; Layer() is the single source of truth for the mapping.
type NodeKind string

const (
	NodeComponent  NodeKind = "component"
	NodePage       NodeKind = "page"
	NodeAPICall    NodeKind = "api-call"
	NodeEndpoint   NodeKind = "endpoint"
	NodeService    NodeKind = "service"
	NodeController NodeKind = "controller"
	NodeQuery      NodeKind = "database-query"
	NodeTable      NodeKind = "table"
	NodeSchema     NodeKind = "schema"
)

// Layer returns the architectural layer for the node kind. The switch is
// exhaustive over all declared kinds; an unknown kind maps to backend so a
// corrupt input can never drop a node from the layer partition.
func (k NodeKind) Layer() Layer {
	switch k {
	case NodeComponent, NodePage, NodeAPICall:
		return LayerFrontend
	case NodeEndpoint, NodeService, NodeController, NodeQuery:
		return LayerBackend
	case NodeTable, NodeSchema:
		return LayerDatabase
	default:
		return LayerBackend
	}
}

// Valid reports whether k is one of the declared node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeComponent, NodePage, NodeAPICall, NodeEndpoint, NodeService,
		NodeController, NodeQuery, NodeTable, NodeSchema:
		return true
	}
	return false
}

// NodeID is a globally unique node identifier in the form "<kind>:<qualifier>".
type NodeID string

// MakeNodeID builds a node id from its kind and qualifier.
func MakeNodeID(kind NodeKind, qualifier string) NodeID {
	return NodeID(fmt.Sprintf("%s:%s", kind, qualifier))
}

// Node is a single artifact in the lineage graph.
type Node struct {
	ID    NodeID                 `json:"id"`
	Kind  NodeKind               `json:"type"`
	Layer Layer                  `json:"layer"`
	Label string                 `json:"label"`
	File  string                 `json:"file,omitempty"`
	Line  int                    `json:"line,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}
