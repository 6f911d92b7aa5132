// Package report renders analysis results for people and for tools.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"depscan/internal/engine/graph"
)

// DependencyLine formats one file's outgoing edges.
func DependencyLine(n graph.Node) string {
	if len(n.Edges) == 0 {
		return fmt.Sprintf("%s doesn't depend on any packages.", n.Name)
	}
	labels := make([]string, 0, len(n.Edges))
	for _, e := range n.Edges {
		labels = append(labels, e.Label)
	}
	return fmt.Sprintf("%s depends on: %s", n.Name, strings.Join(labels, " "))
}

// ShowDependency writes one dependency line per file in graph order.
func ShowDependency(w io.Writer, g *graph.Graph) error {
	for _, n := range g.Nodes() {
		if _, err := fmt.Fprintln(w, DependencyLine(n)); err != nil {
			return err
		}
	}
	return nil
}

// ShowStrongComponents writes each component as a bracketed list of file
// names, in the order the solver emitted them.
func ShowStrongComponents(w io.Writer, g *graph.Graph, components [][]int) error {
	for _, comp := range components {
		if _, err := fmt.Fprintf(w, "- [%s]\n", strings.Join(g.Names(comp), ", ")); err != nil {
			return err
		}
	}
	return nil
}

// ShowChain writes a dependency chain as "a.cs -> b.cs -> c.cs".
func ShowChain(w io.Writer, chain []string) error {
	names := make([]string, len(chain))
	for i, p := range chain {
		names[i] = filepath.Base(p)
	}
	_, err := fmt.Fprintln(w, strings.Join(names, " -> "))
	return err
}

// ShowImpact lists the files that depend on the target.
func ShowImpact(w io.Writer, r graph.ImpactReport) error {
	if _, err := fmt.Fprintf(w, "Impact of %s\n", filepath.Base(r.TargetPath)); err != nil {
		return err
	}
	sections := []struct {
		name  string
		paths []string
	}{
		{"direct", r.DirectDependents},
		{"transitive", r.TransitiveDependents},
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintf(w, "  %s (%d):\n", sec.name, len(sec.paths)); err != nil {
			return err
		}
		for _, p := range sec.paths {
			if _, err := fmt.Fprintf(w, "    %s\n", p); err != nil {
				return err
			}
		}
	}
	return nil
}
