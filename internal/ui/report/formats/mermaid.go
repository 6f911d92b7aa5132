package formats

import (
	"fmt"
	"strings"

	"depscan/internal/engine/graph"
)

type MermaidGenerator struct {
	graph *graph.Graph
}

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) Generate(components [][]int) (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'theme': 'base', 'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")
	b.WriteString("  classDef file fill:#EFF6FF,stroke:#3B82F6,color:#000000\n")
	b.WriteString("  classDef cycle fill:#FEE2E2,stroke:#DC2626,color:#000000,stroke-width:2px\n")

	nodes := m.graph.Nodes()
	ids := makeIDs(nodes)
	hl := newHighlight(m.graph, components)

	for i, n := range nodes {
		class := "file"
		if hl.node(i) {
			class = "cycle"
		}
		fmt.Fprintf(&b, "  %s[\"%s\"]:::%s\n", ids[i], escapeLabel(n.Name), class)
	}

	// linkStyle addresses edges by declaration order.
	var cycleLinks []string
	link := 0
	for i, n := range nodes {
		for _, e := range n.Edges {
			fmt.Fprintf(&b, "  %s --> %s\n", ids[i], ids[e.Target])
			if hl.edge(i, e.Target) {
				cycleLinks = append(cycleLinks, fmt.Sprint(link))
			}
			link++
		}
	}
	if len(cycleLinks) > 0 {
		fmt.Fprintf(&b, "  linkStyle %s stroke:#DC2626,stroke-width:2px\n", strings.Join(cycleLinks, ","))
	}
	return b.String(), nil
}
