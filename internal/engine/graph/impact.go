package graph

import (
	"errors"
	"fmt"
	"sort"
)

var ErrImpactTargetNotFound = errors.New("impact target not found")

// ImpactReport lists the files that depend on a target, directly or through
// other files.
type ImpactReport struct {
	TargetPath           string
	DirectDependents     []string
	TransitiveDependents []string
}

type ImpactTargetError struct {
	Target string
}

func (e *ImpactTargetError) Error() string {
	return fmt.Sprintf("%v: %s", ErrImpactTargetNotFound, e.Target)
}

func (e *ImpactTargetError) Unwrap() error {
	return ErrImpactTargetNotFound
}

// Impact walks reverse edges from path.
func (g *Graph) Impact(path string) (ImpactReport, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	target, ok := g.index[path]
	if !ok {
		return ImpactReport{}, &ImpactTargetError{Target: path}
	}

	dependents := g.reverse()
	report := ImpactReport{TargetPath: path}

	seen := map[int]bool{target: true}
	queue := make([]int, 0, len(dependents[target]))
	for _, d := range dependents[target] {
		if seen[d] {
			continue
		}
		seen[d] = true
		queue = append(queue, d)
		report.DirectDependents = append(report.DirectDependents, g.nodes[d].Path)
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range dependents[curr] {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
			report.TransitiveDependents = append(report.TransitiveDependents, g.nodes[next].Path)
		}
	}

	sort.Strings(report.DirectDependents)
	sort.Strings(report.TransitiveDependents)
	return report, nil
}

func (g *Graph) reverse() [][]int {
	rev := make([][]int, len(g.nodes))
	for from, n := range g.nodes {
		for _, e := range n.Edges {
			rev[e.Target] = append(rev[e.Target], from)
		}
	}
	return rev
}
