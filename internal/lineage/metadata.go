package lineage

// Metadata holds aggregate statistics over one sealed graph. All values are
// a pure function of the node and edge sets, so two builds from the same
// facts produce identical metadata.
type Metadata struct {
	NodeCount    int              `json:"nodeCount"`
	EdgeCount    int              `json:"edgeCount"`
	NodesByKind  map[NodeKind]int `json:"nodesByType"`
	EdgesByKind  map[EdgeKind]int `json:"edgesByType"`
	NodesByLayer map[Layer]int    `json:"nodesByLayer"`

	AvgConfidence float64 `json:"avgConfidence"`
	MinConfidence float64 `json:"minConfidence"`
	MaxConfidence float64 `json:"maxConfidence"`
	// ConfidenceHistogram buckets edge confidences into 5 buckets of width
	// 0.2 over [0,1]; 1.0 falls into the last bucket.
	ConfidenceHistogram [5]int `json:"confidenceHistogram"`

	DisconnectedComponents int `json:"disconnectedComponents"`
	// LongestPath is the maximum simple-path node count found by per-start
	// DFS. On shallow 3-layer graphs this is exact enough to be useful; it
	// is not a strict DAG longest path on dense or cyclic graphs.
	LongestPath int `json:"longestPath"`
}

func computeMetadata(g *Graph) Metadata {
	m := Metadata{
		NodeCount:    len(g.Nodes),
		EdgeCount:    len(g.Edges),
		NodesByKind:  make(map[NodeKind]int),
		EdgesByKind:  make(map[EdgeKind]int),
		NodesByLayer: make(map[Layer]int),
	}

	for i := range g.Nodes {
		m.NodesByKind[g.Nodes[i].Kind]++
		m.NodesByLayer[g.Nodes[i].Layer]++
	}

	if len(g.Edges) > 0 {
		m.MinConfidence = g.Edges[0].Confidence
		m.MaxConfidence = g.Edges[0].Confidence
		var sum float64
		for _, e := range g.Edges {
			m.EdgesByKind[e.Kind]++
			sum += e.Confidence
			if e.Confidence < m.MinConfidence {
				m.MinConfidence = e.Confidence
			}
			if e.Confidence > m.MaxConfidence {
				m.MaxConfidence = e.Confidence
			}
			m.ConfidenceHistogram[confidenceBucket(e.Confidence)]++
		}
		m.AvgConfidence = sum / float64(len(g.Edges))
	}

	m.DisconnectedComponents = countComponents(g)
	m.LongestPath = longestPath(g)

	return m
}

// confidenceBucket compares against explicit thresholds rather than
// dividing by the bucket width: 0.6/0.2 rounds below 3 in float64, which
// would misplace confidences landing exactly on a boundary.
func confidenceBucket(c float64) int {
	switch {
	case c < 0.2:
		return 0
	case c < 0.4:
		return 1
	case c < 0.6:
		return 2
	case c < 0.8:
		return 3
	default:
		return 4
	}
}

// countComponents counts undirected-reachability components with an
// iterative BFS. Isolated nodes count as singleton components.
func countComponents(g *Graph) int {
	visited := make([]bool, len(g.Nodes))
	components := 0

	queue := make([]int, 0, len(g.Nodes))
	for start := range g.Nodes {
		if visited[start] {
			continue
		}
		components++
		visited[start] = true
		queue = append(queue[:0], start)

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.neighbors[g.Nodes[cur].ID] {
				ni := g.index[next]
				if !visited[ni] {
					visited[ni] = true
					queue = append(queue, ni)
				}
			}
		}
	}

	return components
}

// dfsFrame is one explicit-stack frame of the longest-path search.
type dfsFrame struct {
	node int
	next int // index into outgoing neighbor list not yet explored
}

// longestPath finds the maximum simple-path node count over directed edges,
// trying every node as a start. The search uses an explicit stack and an
// on-path bitmap instead of recursion, so large graphs cannot exhaust the
// goroutine stack and cycles terminate naturally.
func longestPath(g *Graph) int {
	if len(g.Nodes) == 0 {
		return 0
	}

	// Index-based outgoing adjacency, built once.
	out := make([][]int, len(g.Nodes))
	for i := range g.Nodes {
		for _, to := range g.outgoing[g.Nodes[i].ID] {
			out[i] = append(out[i], g.index[to])
		}
	}

	best := 0
	onPath := make([]bool, len(g.Nodes))
	stack := make([]dfsFrame, 0, len(g.Nodes))

	for start := range g.Nodes {
		stack = append(stack[:0], dfsFrame{node: start})
		onPath[start] = true
		if 1 > best {
			best = 1
		}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			advanced := false
			for top.next < len(out[top.node]) {
				cand := out[top.node][top.next]
				top.next++
				if onPath[cand] {
					continue
				}
				onPath[cand] = true
				stack = append(stack, dfsFrame{node: cand})
				if len(stack) > best {
					best = len(stack)
				}
				advanced = true
				break
			}

			if !advanced {
				onPath[top.node] = false
				stack = stack[:len(stack)-1]
			}
		}
	}

	return best
}
