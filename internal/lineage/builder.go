package lineage

import (
	"fmt"
	"strings"

	"clg/internal/connect"
	"clg/internal/extract"
	"clg/internal/logging"
)

// Builder assembles a lineage graph from one extraction snapshot.
// Construction is synchronous and side-effect free: building twice from the
// same snapshot reproduces identical node/edge id sets and metadata.
type Builder struct {
	weights connect.Weights
	logger  *logging.Logger
}

// NewBuilder creates a builder with the given scoring weights.
func NewBuilder(weights connect.Weights, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{weights: weights, logger: logger}
}

// Build assembles nodes for every fact in the snapshot, runs both
// connectors, partitions nodes by layer, and computes metadata. A nil or
// empty snapshot degrades to an empty sealed graph.
func (b *Builder) Build(snap *extract.Snapshot) *Graph {
	g := NewGraph()
	if snap == nil {
		g.Seal()
		return g
	}

	for _, c := range snap.Components {
		g.AddNode(Node{
			ID:    MakeNodeID(NodeComponent, c.Name),
			Kind:  NodeComponent,
			Label: c.Name,
			File:  c.File,
			Line:  c.Line,
			Data:  componentData(c),
		})
	}

	for _, call := range snap.APICalls {
		label := call.URL
		if label == "" {
			label = call.URLPattern
		}
		g.AddNode(Node{
			ID:    MakeNodeID(NodeAPICall, call.ID),
			Kind:  NodeAPICall,
			Label: fmt.Sprintf("%s %s", strings.ToUpper(call.Method), label),
			File:  call.File,
			Line:  call.Line,
		})
	}

	for _, ep := range snap.Endpoints {
		g.AddNode(Node{
			ID:    endpointNodeID(ep),
			Kind:  NodeEndpoint,
			Label: fmt.Sprintf("%s %s", strings.ToUpper(ep.Method), ep.Path),
			File:  ep.File,
			Line:  ep.Line,
			Data:  endpointData(ep),
		})
	}

	for _, q := range snap.Queries {
		g.AddNode(Node{
			ID:    MakeNodeID(NodeQuery, q.ID),
			Kind:  NodeQuery,
			Label: queryLabel(q),
			File:  q.File,
			Line:  q.Line,
			Data:  queryData(q),
		})
	}

	for _, t := range snap.Tables {
		g.AddNode(Node{
			ID:    MakeNodeID(NodeTable, t.Name),
			Kind:  NodeTable,
			Label: t.Name,
			File:  t.File,
			Data:  tableData(t),
		})
	}

	endpointIDs := make(map[string]NodeID, len(snap.Endpoints))
	for _, ep := range snap.Endpoints {
		endpointIDs[ep.ID] = endpointNodeID(ep)
	}

	dropped := 0

	for _, m := range connect.MatchCalls(snap.APICalls, snap.Endpoints, b.weights) {
		ok := g.AddEdge(Edge{
			From:       MakeNodeID(NodeAPICall, m.CallID),
			To:         endpointIDs[m.EndpointID],
			Kind:       EdgeAPICall,
			Confidence: m.Confidence,
			Label:      "calls",
			Data:       map[string]interface{}{"reasons": m.Reasons},
		})
		if !ok {
			dropped++
		}
	}

	for _, m := range connect.MatchQueries(snap.Endpoints, snap.Queries, b.weights) {
		ok := g.AddEdge(Edge{
			From:       endpointIDs[m.EndpointID],
			To:         MakeNodeID(NodeQuery, m.QueryID),
			Kind:       EdgeQuery,
			Confidence: m.Confidence,
			Label:      "executes",
			Data:       map[string]interface{}{"reasons": m.Reasons},
		})
		if !ok {
			dropped++
		}
	}

	for _, m := range connect.MatchTables(snap.Queries, snap.Tables) {
		ok := g.AddEdge(Edge{
			From:       MakeNodeID(NodeQuery, m.QueryID),
			To:         MakeNodeID(NodeTable, m.TableName),
			Kind:       EdgeQuery,
			Confidence: 1.0,
			Label:      "reads/writes",
			Data:       map[string]interface{}{"schemaVerified": true},
		})
		if !ok {
			dropped++
		}
	}

	if dropped > 0 {
		b.logger.Warn("Dropped edges with dangling node references", map[string]interface{}{
			"count": dropped,
		})
	}

	g.Seal()

	b.logger.Debug("Lineage graph built", map[string]interface{}{
		"nodes":      len(g.Nodes),
		"edges":      len(g.Edges),
		"components": g.Metadata.DisconnectedComponents,
	})

	return g
}

func endpointNodeID(ep extract.Endpoint) NodeID {
	return MakeNodeID(NodeEndpoint, fmt.Sprintf("%s %s", strings.ToUpper(ep.Method), ep.Path))
}

func queryLabel(q extract.DatabaseQuery) string {
	table := q.ResolvedTable()
	if q.Type != "" && table != "" {
		return fmt.Sprintf("%s %s", q.Type, table)
	}
	if table != "" {
		return table
	}
	return q.ID
}

func componentData(c extract.Component) map[string]interface{} {
	if len(c.Props) == 0 {
		return nil
	}
	return map[string]interface{}{"props": c.Props}
}

func endpointData(ep extract.Endpoint) map[string]interface{} {
	data := make(map[string]interface{})
	if ep.Handler != "" {
		data["handler"] = ep.Handler
	}
	if len(ep.Parameters) > 0 {
		data["parameters"] = ep.Parameters
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func queryData(q extract.DatabaseQuery) map[string]interface{} {
	data := make(map[string]interface{})
	if q.Type != "" {
		data["queryType"] = q.Type
	}
	if q.Function != "" {
		data["function"] = q.Function
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func tableData(t extract.Table) map[string]interface{} {
	data := make(map[string]interface{})
	if len(t.Columns) > 0 {
		cols := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			cols = append(cols, c.Name)
		}
		data["columns"] = cols
	}
	if len(t.ForeignKeys) > 0 {
		data["foreignKeys"] = len(t.ForeignKeys)
	}
	if len(data) == 0 {
		return nil
	}
	return data
}
