package lineage

import "testing"

func TestAddNodeIgnoresDuplicates(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "table:users", Kind: NodeTable, Label: "users"})
	g.AddNode(Node{ID: "table:users", Kind: NodeTable, Label: "users-again"})
	g.Seal()

	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Label != "users" {
		t.Errorf("expected first insertion to win, got label %q", g.Nodes[0].Label)
	}
}

func TestAddNodeDerivesLayer(t *testing.T) {
	tests := []struct {
		kind  NodeKind
		layer Layer
	}{
		{NodeComponent, LayerFrontend},
		{NodePage, LayerFrontend},
		{NodeAPICall, LayerFrontend},
		{NodeEndpoint, LayerBackend},
		{NodeService, LayerBackend},
		{NodeController, LayerBackend},
		{NodeQuery, LayerBackend},
		{NodeTable, LayerDatabase},
		{NodeSchema, LayerDatabase},
	}

	for _, tt := range tests {
		g := NewGraph()
		g.AddNode(Node{ID: MakeNodeID(tt.kind, "x"), Kind: tt.kind})
		if g.Nodes[0].Layer != tt.layer {
			t.Errorf("kind %s: expected layer %s, got %s", tt.kind, tt.layer, g.Nodes[0].Layer)
		}
	}
}

func TestAddEdgeRejectsDanglingReferences(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "table:users", Kind: NodeTable})

	if ok := g.AddEdge(Edge{From: "table:users", To: "table:missing", Kind: EdgeDependency}); ok {
		t.Error("expected edge with missing target to be dropped")
	}
	if ok := g.AddEdge(Edge{From: "table:missing", To: "table:users", Kind: EdgeDependency}); ok {
		t.Error("expected edge with missing source to be dropped")
	}
	if len(g.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(g.Edges))
	}
}

func TestAddEdgeAssignsDeterministicID(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "database-query:q-1", Kind: NodeQuery})
	g.AddNode(Node{ID: "table:users", Kind: NodeTable})
	g.AddEdge(Edge{From: "database-query:q-1", To: "table:users", Kind: EdgeQuery, Confidence: 1.0})

	want := "database-query:database-query:q-1->table:users"
	if g.Edges[0].ID != want {
		t.Errorf("expected edge id %q, got %q", want, g.Edges[0].ID)
	}
}

func TestNeighborsBothDirections(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "endpoint:GET /api/users", Kind: NodeEndpoint})
	g.AddNode(Node{ID: "database-query:q-1", Kind: NodeQuery})
	g.AddEdge(Edge{From: "endpoint:GET /api/users", To: "database-query:q-1", Kind: EdgeQuery, Confidence: 0.5})
	g.Seal()

	if nbs := g.Neighbors("database-query:q-1"); len(nbs) != 1 || nbs[0] != "endpoint:GET /api/users" {
		t.Errorf("expected reverse adjacency for traversal, got %v", nbs)
	}
	if out := g.Outgoing("database-query:q-1"); len(out) != 0 {
		t.Errorf("expected no outgoing edges from the query, got %v", out)
	}
	if out := g.Outgoing("endpoint:GET /api/users"); len(out) != 1 {
		t.Errorf("expected one outgoing edge from the endpoint, got %v", out)
	}
}
