package formats

import (
	"fmt"
	"strings"

	"depscan/internal/engine/graph"
)

type PlantUMLGenerator struct {
	graph *graph.Graph
}

func NewPlantUMLGenerator(g *graph.Graph) *PlantUMLGenerator {
	return &PlantUMLGenerator{graph: g}
}

func (p *PlantUMLGenerator) Generate(components [][]int) (string, error) {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("left to right direction\n")
	b.WriteString("skinparam componentStyle rectangle\n")
	b.WriteString("skinparam shadowing false\n\n")

	nodes := p.graph.Nodes()
	ids := makeIDs(nodes)
	hl := newHighlight(p.graph, components)

	for i, n := range nodes {
		stereo := ""
		if hl.node(i) {
			stereo = " <<cycle>> #FEE2E2"
		}
		fmt.Fprintf(&b, "component \"%s\" as %s%s\n", escapeLabel(n.Name), ids[i], stereo)
	}
	if len(nodes) > 0 {
		b.WriteString("\n")
	}

	for i, n := range nodes {
		for _, e := range n.Edges {
			arrow := "-->"
			if hl.edge(i, e.Target) {
				arrow = "-[#DC2626,bold]->"
			}
			fmt.Fprintf(&b, "%s %s %s\n", ids[i], arrow, ids[e.Target])
		}
	}

	b.WriteString("@enduml\n")
	return b.String(), nil
}
