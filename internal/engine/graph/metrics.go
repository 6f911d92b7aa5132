package graph

import "sort"

// NodeMetrics summarizes one file's position in the graph.
type NodeMetrics struct {
	Path       string
	Name       string
	FanIn      int
	FanOut     int
	Depth      int
	InCycle    bool
	Component  int
	Importance float64
}

// Metrics computes fan-in, fan-out and dependency depth for every node.
// Depth is the longest path to a leaf over the condensation, so files in
// the same component share a depth. Results are sorted by importance, then
// path.
func (g *Graph) Metrics() []NodeMetrics {
	comps := g.StrongComponents()

	g.mu.RLock()
	defer g.mu.RUnlock()

	compOf := make([]int, len(g.nodes))
	for ci, c := range comps {
		for _, v := range c {
			compOf[v] = ci
		}
	}

	// Tarjan emits components in reverse topological order, so every
	// component's successors already have a depth when it is reached.
	compDepth := make([]int, len(comps))
	for ci, c := range comps {
		depth := 0
		for _, v := range c {
			for _, e := range g.nodes[v].Edges {
				if oc := compOf[e.Target]; oc != ci {
					depth = max(depth, compDepth[oc]+1)
				}
			}
		}
		compDepth[ci] = depth
	}

	out := make([]NodeMetrics, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = NodeMetrics{
			Path:      n.Path,
			Name:      n.Name,
			FanOut:    len(n.Edges),
			Depth:     compDepth[compOf[i]],
			InCycle:   len(comps[compOf[i]]) > 1 || g.selfLoop(i),
			Component: compOf[i],
		}
	}
	for _, n := range g.nodes {
		for _, e := range n.Edges {
			out[e.Target].FanIn++
		}
	}
	for i := range out {
		m := &out[i]
		m.Importance = ImportanceScore(m.FanIn, m.FanOut, m.Depth, m.InCycle)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].Path < out[j].Path
	})
	return out
}
