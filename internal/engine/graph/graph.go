// Package graph is the file-level dependency graph and the analyses run
// over it.
package graph

import (
	"path/filepath"
	"sync"

	"depscan/internal/shared/observability"
)

// Edge points at a node index. Label names the file that declares the
// type which caused the dependency.
type Edge struct {
	Target int
	Label  string
}

// Node is a source file. Nodes live in the graph's arena and refer to each
// other by index only.
type Node struct {
	Path  string
	Name  string
	Edges []Edge
}

// Graph is an arena of file nodes keyed by path.
type Graph struct {
	mu    sync.RWMutex
	nodes []*Node
	index map[string]int
	edges int
}

func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode returns the index for path, creating the node on first sight.
func (g *Graph) AddNode(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if idx, ok := g.index[path]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, &Node{Path: path, Name: filepath.Base(path)})
	g.index[path] = idx
	observability.GraphNodes.Set(float64(len(g.nodes)))
	return idx
}

// Lookup returns the index of the node for path.
func (g *Graph) Lookup(path string) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.index[path]
	return idx, ok
}

// AddChild adds an edge from -> to. An existing edge to the same target is
// kept unchanged, so the first label recorded for a pair wins. It reports
// whether an edge was added.
func (g *Graph) AddChild(from, to int, label string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.valid(from) || !g.valid(to) {
		return false
	}
	n := g.nodes[from]
	for _, e := range n.Edges {
		if e.Target == to {
			return false
		}
	}
	n.Edges = append(n.Edges, Edge{Target: to, Label: label})
	g.edges++
	observability.GraphEdges.Set(float64(g.edges))
	return true
}

func (g *Graph) valid(idx int) bool {
	return idx >= 0 && idx < len(g.nodes)
}

// Node returns a copy of the node at idx.
func (g *Graph) Node(idx int) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.valid(idx) {
		return Node{}, false
	}
	n := g.nodes[idx]
	return Node{Path: n.Path, Name: n.Name, Edges: append([]Edge(nil), n.Edges...)}, true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, Node{Path: n.Path, Name: n.Name, Edges: append([]Edge(nil), n.Edges...)})
	}
	return out
}

// Edges returns the outgoing edges of the node at idx.
func (g *Graph) Edges(idx int) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.valid(idx) {
		return nil
	}
	return append([]Edge(nil), g.nodes[idx].Edges...)
}

func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges
}

// Names maps indices to base names.
func (g *Graph) Names(idxs []int) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(idxs))
	for _, i := range idxs {
		if g.valid(i) {
			out = append(out, g.nodes[i].Name)
		}
	}
	return out
}
