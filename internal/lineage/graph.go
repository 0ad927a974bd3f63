package lineage

import "sort"

// Layers partitions all node ids by architectural layer. Every node appears
// in exactly one layer slice.
type Layers struct {
	Frontend []NodeID `json:"frontend"`
	Backend  []NodeID `json:"backend"`
	Database []NodeID `json:"database"`
}

// Graph is one immutable lineage graph snapshot. It is rebuilt wholesale per
// analysis run and never incrementally mutated after Seal.
type Graph struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Layers   Layers   `json:"layers"`
	Metadata Metadata `json:"metadata"`

	index     map[NodeID]int
	neighbors map[NodeID][]NodeID // undirected adjacency for traversal
	outgoing  map[NodeID][]NodeID
}

// NewGraph returns an empty graph ready for node and edge insertion.
func NewGraph() *Graph {
	return &Graph{
		index:     make(map[NodeID]int),
		neighbors: make(map[NodeID][]NodeID),
		outgoing:  make(map[NodeID][]NodeID),
	}
}

// AddNode inserts a node. A duplicate id is ignored so rebuilding from the
// same facts stays idempotent.
func (g *Graph) AddNode(n Node) {
	if _, exists := g.index[n.ID]; exists {
		return
	}
	n.Layer = n.Kind.Layer()
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// AddEdge inserts an edge. Edges whose endpoints are not present in the
// graph are dropped and reported via the return value: a dangling reference
// is a data-quality defect, never fatal.
func (g *Graph) AddEdge(e Edge) bool {
	if _, ok := g.index[e.From]; !ok {
		return false
	}
	if _, ok := g.index[e.To]; !ok {
		return false
	}
	if e.ID == "" {
		e.ID = MakeEdgeID(e.Kind, e.From, e.To)
	}
	g.Edges = append(g.Edges, e)
	return true
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// NodesByKind returns all nodes of the given kind in id order.
func (g *Graph) NodesByKind(kind NodeKind) []*Node {
	var nodes []*Node
	for i := range g.Nodes {
		if g.Nodes[i].Kind == kind {
			nodes = append(nodes, &g.Nodes[i])
		}
	}
	return nodes
}

// Neighbors returns adjacent node ids following edges in both directions.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	return g.neighbors[id]
}

// Outgoing returns node ids reachable over a single directed edge.
func (g *Graph) Outgoing(id NodeID) []NodeID {
	return g.outgoing[id]
}

// Seal sorts nodes and edges into a canonical order, rebuilds the adjacency
// indexes, partitions nodes into layers, and computes metadata. After Seal
// the graph is treated as read-only.
func (g *Graph) Seal() {
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool { return g.Edges[i].ID < g.Edges[j].ID })

	g.index = make(map[NodeID]int, len(g.Nodes))
	for i := range g.Nodes {
		g.index[g.Nodes[i].ID] = i
	}

	g.neighbors = make(map[NodeID][]NodeID)
	g.outgoing = make(map[NodeID][]NodeID)
	for _, e := range g.Edges {
		g.neighbors[e.From] = append(g.neighbors[e.From], e.To)
		g.neighbors[e.To] = append(g.neighbors[e.To], e.From)
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	}

	g.Layers = Layers{
		Frontend: []NodeID{},
		Backend:  []NodeID{},
		Database: []NodeID{},
	}
	for i := range g.Nodes {
		switch g.Nodes[i].Layer {
		case LayerFrontend:
			g.Layers.Frontend = append(g.Layers.Frontend, g.Nodes[i].ID)
		case LayerBackend:
			g.Layers.Backend = append(g.Layers.Backend, g.Nodes[i].ID)
		case LayerDatabase:
			g.Layers.Database = append(g.Layers.Database, g.Nodes[i].ID)
		}
	}

	g.Metadata = computeMetadata(g)
}
