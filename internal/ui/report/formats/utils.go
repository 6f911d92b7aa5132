// Package formats renders the file dependency graph as diagram and table
// text.
package formats

import (
	"fmt"
	"strings"
	"unicode"

	"depscan/internal/engine/graph"
)

// highlight indexes the nodes and edges that sit inside a cyclic component.
type highlight struct {
	nodes map[int]int
	edges map[[2]int]bool
}

func newHighlight(g *graph.Graph, components [][]int) highlight {
	h := highlight{nodes: make(map[int]int), edges: make(map[[2]int]bool)}
	for ci, comp := range components {
		if len(comp) < 2 && !selfLoop(g, comp) {
			continue
		}
		for _, v := range comp {
			h.nodes[v] = ci
		}
	}
	for v, ci := range h.nodes {
		for _, e := range g.Edges(v) {
			if cj, ok := h.nodes[e.Target]; ok && cj == ci {
				h.edges[[2]int{v, e.Target}] = true
			}
		}
	}
	return h
}

func selfLoop(g *graph.Graph, comp []int) bool {
	if len(comp) != 1 {
		return false
	}
	for _, e := range g.Edges(comp[0]) {
		if e.Target == comp[0] {
			return true
		}
	}
	return false
}

func (h highlight) node(v int) bool {
	_, ok := h.nodes[v]
	return ok
}

func (h highlight) edge(from, to int) bool {
	return h.edges[[2]int{from, to}]
}

func sanitizeID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

// makeIDs assigns unique identifiers to nodes. Files sharing a base name
// get numeric suffixes in node order.
func makeIDs(nodes []graph.Node) []string {
	ids := make([]string, len(nodes))
	used := make(map[string]int, len(nodes))
	for i, n := range nodes {
		base := sanitizeID(n.Name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[i] = base
			continue
		}
		ids[i] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
