package impact

import (
	"sort"
	"strings"

	"clg/internal/change"
	clgerrors "clg/internal/errors"
	"clg/internal/lineage"
	"clg/internal/logging"
)

// DefaultMaxDepth bounds the bidirectional traversal from seed nodes.
const DefaultMaxDepth = 3

// Analyzer performs impact analysis over a lineage graph. An Analyzer is
// stateless between runs and safe for concurrent use on distinct inputs.
type Analyzer struct {
	maxDepth int
	logger   *logging.Logger
}

// NewAnalyzer creates an analyzer with the given traversal depth bound.
func NewAnalyzer(maxDepth int, logger *logging.Logger) *Analyzer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{maxDepth: maxDepth, logger: logger}
}

// Analyze derives the impact of one change request against one graph
// snapshot. The graph is never mutated. An empty graph degrades to an
// empty analysis; a request without a description is a validation error.
func (a *Analyzer) Analyze(req *change.Request, g *lineage.Graph) (*Analysis, error) {
	if req == nil || strings.TrimSpace(req.Description) == "" {
		return nil, clgerrors.New(clgerrors.ChangeRequestInvalid, "change request description is required")
	}

	result := &Analysis{
		RequestID:       req.ID,
		ChangeType:      req.Type,
		AffectedNodes:   []AffectedNode{},
		AffectedFiles:   []string{},
		BreakingChanges: []BreakingChange{},
		Recommendations: []Recommendation{},
	}

	if g == nil || len(g.Nodes) == 0 {
		result.Summary = summarize(result)
		return result, nil
	}

	seeds := a.selectSeeds(req, g)
	a.logger.Debug("Selected seed nodes", map[string]interface{}{
		"changeType": string(req.Type),
		"seeds":      len(seeds),
	})

	result.AffectedNodes = a.traverse(seeds, g)
	result.AffectedFiles = collectFiles(result.AffectedNodes, g)
	result.BreakingChanges = classifyBreaking(req, seeds, g)
	result.Recommendations = recommend(req, result)
	result.Summary = summarize(result)

	return result, nil
}

// selectSeeds picks the traversal starting points for the change type.
func (a *Analyzer) selectSeeds(req *change.Request, g *lineage.Graph) []lineage.NodeID {
	switch req.Type {
	case change.ModifyAPI:
		return matchNodes(g, lineage.NodeEndpoint, req.TargetEndpoints)
	case change.ModifySchema:
		return matchNodes(g, lineage.NodeTable, req.TargetTables)
	default:
		if len(req.TargetFiles) > 0 {
			return nodesByFile(g, req.TargetFiles)
		}
		// No classification and no targets: the maximally conservative
		// policy treats the entire node set as affected.
		seeds := make([]lineage.NodeID, 0, len(g.Nodes))
		for i := range g.Nodes {
			seeds = append(seeds, g.Nodes[i].ID)
		}
		return seeds
	}
}

// matchNodes returns nodes of the given kind whose label or file contains
// any of the patterns, case-insensitively. Without patterns, every node of
// the kind is a seed.
func matchNodes(g *lineage.Graph, kind lineage.NodeKind, patterns []string) []lineage.NodeID {
	var seeds []lineage.NodeID
	for _, n := range g.NodesByKind(kind) {
		if len(patterns) == 0 {
			seeds = append(seeds, n.ID)
			continue
		}
		label := strings.ToLower(n.Label)
		file := strings.ToLower(n.File)
		for _, p := range patterns {
			p = strings.ToLower(p)
			if strings.Contains(label, p) || strings.Contains(file, p) {
				seeds = append(seeds, n.ID)
				break
			}
		}
	}
	return seeds
}

func nodesByFile(g *lineage.Graph, files []string) []lineage.NodeID {
	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
	}

	var seeds []lineage.NodeID
	for i := range g.Nodes {
		if g.Nodes[i].File != "" && fileSet[g.Nodes[i].File] {
			seeds = append(seeds, g.Nodes[i].ID)
		}
	}
	return seeds
}

// traverse runs a breadth-first expansion from every seed, following edges
// in both directions, bounded to maxDepth hops. A single visited set is
// shared across all seeds; already-visited nodes do not re-expand, which
// also guarantees termination on cyclic graphs. Seeds are reported as
// direct impact, everything else reached as indirect.
func (a *Analyzer) traverse(seeds []lineage.NodeID, g *lineage.Graph) []AffectedNode {
	visited := make(map[lineage.NodeID]bool)
	seedSet := make(map[lineage.NodeID]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}

	type queued struct {
		id    lineage.NodeID
		depth int
	}

	queue := make([]queued, 0, len(seeds))
	for _, s := range seeds {
		if visited[s] {
			continue
		}
		visited[s] = true
		queue = append(queue, queued{id: s})
	}

	var affected []AffectedNode
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		node, ok := g.Node(cur.id)
		if !ok {
			continue
		}

		impactType := ImpactIndirect
		if seedSet[cur.id] {
			impactType = ImpactDirect
		}
		affected = append(affected, AffectedNode{
			ID:         node.ID,
			Layer:      node.Layer,
			ImpactType: impactType,
			Severity:   SeverityMedium,
			Depth:      1, // constant, see AffectedNode.Depth
		})

		if cur.depth >= a.maxDepth {
			continue
		}
		for _, next := range g.Neighbors(cur.id) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, queued{id: next, depth: cur.depth + 1})
			}
		}
	}

	sort.Slice(affected, func(i, j int) bool { return affected[i].ID < affected[j].ID })
	return affected
}

// collectFiles deduplicates the source files behind the affected nodes.
func collectFiles(affected []AffectedNode, g *lineage.Graph) []string {
	seen := make(map[string]bool)
	for _, an := range affected {
		node, ok := g.Node(an.ID)
		if !ok || node.File == "" {
			continue
		}
		seen[node.File] = true
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func summarize(result *Analysis) Summary {
	files := len(result.AffectedFiles)
	nodes := len(result.AffectedNodes)

	complexity := ComplexityLow
	switch {
	case files > 20 || nodes > 50:
		complexity = ComplexityHigh
	case files > 5 || nodes > 10:
		complexity = ComplexityMedium
	}

	return Summary{
		TotalAffectedNodes:   nodes,
		TotalAffectedFiles:   files,
		TotalBreakingChanges: len(result.BreakingChanges),
		EstimatedComplexity:  complexity,
		EstimatedHours:       2*files + 4*len(result.BreakingChanges),
	}
}
