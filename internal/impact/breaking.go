package impact

import (
	"fmt"
	"sort"
	"strings"

	"clg/internal/change"
	"clg/internal/lineage"
)

// classifyBreaking predicts breaking changes from the change type and the
// seed nodes the request matched.
func classifyBreaking(req *change.Request, seeds []lineage.NodeID, g *lineage.Graph) []BreakingChange {
	switch req.Type {
	case change.ModifyAPI:
		return apiBreakingChanges(seeds, g)
	case change.ModifySchema:
		return schemaBreakingChanges(seeds, g)
	case change.ModifyFeature:
		if len(req.TargetComponents) > 0 {
			return []BreakingChange{{
				Type:        BreakingTypeMismatch,
				Severity:    SeverityMedium,
				File:        componentFile(req.TargetComponents, g),
				Description: fmt.Sprintf("Component changes to %s may break prop contracts in consuming components", strings.Join(req.TargetComponents, ", ")),
				Migration:   "Update consuming components to match the new prop types",
			}}
		}
	}
	return []BreakingChange{}
}

// apiBreakingChanges emits one high-severity record per matched endpoint.
func apiBreakingChanges(seeds []lineage.NodeID, g *lineage.Graph) []BreakingChange {
	var changes []BreakingChange
	for _, id := range seeds {
		node, ok := g.Node(id)
		if !ok || node.Kind != lineage.NodeEndpoint {
			continue
		}
		changes = append(changes, BreakingChange{
			Type:        BreakingAPIResponse,
			Severity:    SeverityHigh,
			File:        node.File,
			Description: fmt.Sprintf("Response shape of %s may change; frontend callers must be updated", node.Label),
			Migration:   "Version the endpoint or update all callers before deploying",
		})
	}
	if changes == nil {
		return []BreakingChange{}
	}
	return changes
}

// schemaBreakingChanges emits one high-severity record per target table
// that has at least one associated query. The file is taken from the first
// associated query in id order.
func schemaBreakingChanges(seeds []lineage.NodeID, g *lineage.Graph) []BreakingChange {
	var changes []BreakingChange
	for _, id := range seeds {
		table, ok := g.Node(id)
		if !ok || table.Kind != lineage.NodeTable {
			continue
		}

		queries := associatedQueries(table.ID, g)
		if len(queries) == 0 {
			continue
		}

		changes = append(changes, BreakingChange{
			Type:        BreakingSchemaColumn,
			Severity:    SeverityHigh,
			File:        queries[0].File,
			Description: fmt.Sprintf("Schema change to table %s affects %d quer%s", table.Label, len(queries), pluralY(len(queries))),
			Migration:   "Write a migration script and update affected queries in the same release",
		})
	}
	if changes == nil {
		return []BreakingChange{}
	}
	return changes
}

// associatedQueries returns the query nodes with an edge into the table,
// sorted by node id for deterministic file attribution.
func associatedQueries(tableID lineage.NodeID, g *lineage.Graph) []*lineage.Node {
	var queries []*lineage.Node
	for _, nb := range g.Neighbors(tableID) {
		node, ok := g.Node(nb)
		if ok && node.Kind == lineage.NodeQuery {
			queries = append(queries, node)
		}
	}
	sort.Slice(queries, func(i, j int) bool { return queries[i].ID < queries[j].ID })
	return queries
}

func componentFile(targets []string, g *lineage.Graph) string {
	for _, t := range targets {
		if node, ok := g.Node(lineage.MakeNodeID(lineage.NodeComponent, t)); ok {
			return node.File
		}
	}
	return ""
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
