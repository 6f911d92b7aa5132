package formats

import (
	"fmt"
	"strings"

	"depscan/internal/engine/graph"
)

type TSVGenerator struct {
	graph *graph.Graph
}

func NewTSVGenerator(g *graph.Graph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate writes one row per edge. InCycle is true when both ends belong
// to the same cyclic component.
func (t *TSVGenerator) Generate(components [][]int) (string, error) {
	var buf strings.Builder
	buf.WriteString("From\tTo\tLabel\tFromPath\tToPath\tInCycle\n")

	nodes := t.graph.Nodes()
	hl := newHighlight(t.graph, components)
	for i, n := range nodes {
		for _, e := range n.Edges {
			to := nodes[e.Target]
			fmt.Fprintf(&buf, "%s\t%s\t%s\t%s\t%s\t%t\n",
				n.Name, to.Name, e.Label, n.Path, to.Path, hl.edge(i, e.Target))
		}
	}
	return buf.String(), nil
}

// GenerateMetrics writes one row per file.
func (t *TSVGenerator) GenerateMetrics(rows []graph.NodeMetrics) (string, error) {
	var buf strings.Builder
	buf.WriteString("File\tPath\tFanIn\tFanOut\tDepth\tInCycle\tImportance\n")
	for _, m := range rows {
		fmt.Fprintf(&buf, "%s\t%s\t%d\t%d\t%d\t%t\t%.2f\n",
			m.Name, m.Path, m.FanIn, m.FanOut, m.Depth, m.InCycle, m.Importance)
	}
	return buf.String(), nil
}
