package formats

import (
	"fmt"
	"strings"

	"depscan/internal/engine/graph"
)

type DOTGenerator struct {
	graph *graph.Graph
}

func NewDOTGenerator(g *graph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

// Generate renders the graph, drawing members of cyclic components and the
// edges between them in red.
func (d *DOTGenerator) Generate(components [][]int) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	nodes := d.graph.Nodes()
	ids := makeIDs(nodes)
	hl := newHighlight(d.graph, components)

	for i, n := range nodes {
		attrs := fmt.Sprintf("label=\"%s\", tooltip=\"%s\"", escapeLabel(n.Name), escapeLabel(n.Path))
		if hl.node(i) {
			attrs += ", color=\"#DC2626\", fontcolor=\"#DC2626\", penwidth=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", ids[i], attrs)
	}
	if len(nodes) > 0 {
		buf.WriteString("\n")
	}

	for i, n := range nodes {
		for _, e := range n.Edges {
			attrs := ""
			if hl.edge(i, e.Target) {
				attrs = " [color=\"#DC2626\", penwidth=2.2]"
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", ids[i], ids[e.Target], attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
