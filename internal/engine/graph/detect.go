package graph

// StrongComponents partitions the graph into strongly connected components
// with Tarjan's algorithm. Roots are visited in node order and children in
// edge order. Each component lists its members in the order they were
// popped from the Tarjan stack. Every node, including isolated ones, lands
// in exactly one component.
func (g *Graph) StrongComponents() [][]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := &tarjan{
		g:       g,
		index:   make([]int, len(g.nodes)),
		lowlink: make([]int, len(g.nodes)),
		onStack: make([]bool, len(g.nodes)),
	}
	for i := range s.index {
		s.index[i] = -1
	}
	for v := range g.nodes {
		if s.index[v] < 0 {
			s.connect(v)
		}
	}
	return s.components
}

// tarjan keeps the per-run bookkeeping out of the nodes themselves so the
// graph can be solved repeatedly.
type tarjan struct {
	g          *Graph
	next       int
	index      []int
	lowlink    []int
	onStack    []bool
	stack      []int
	components [][]int
}

func (s *tarjan) connect(v int) {
	s.index[v] = s.next
	s.lowlink[v] = s.next
	s.next++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, e := range s.g.nodes[v].Edges {
		w := e.Target
		switch {
		case s.index[w] < 0:
			s.connect(w)
			s.lowlink[v] = min(s.lowlink[v], s.lowlink[w])
		case s.onStack[w]:
			s.lowlink[v] = min(s.lowlink[v], s.index[w])
		}
	}

	if s.lowlink[v] != s.index[v] {
		return
	}
	var comp []int
	for {
		top := len(s.stack) - 1
		w := s.stack[top]
		s.stack = s.stack[:top]
		s.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	s.components = append(s.components, comp)
}

// Cycles returns the components that contain a cycle: more than one member,
// or a single node with an edge to itself.
func (g *Graph) Cycles() [][]int {
	comps := g.StrongComponents()

	g.mu.RLock()
	defer g.mu.RUnlock()
	var out [][]int
	for _, c := range comps {
		if len(c) > 1 || g.selfLoop(c[0]) {
			out = append(out, c)
		}
	}
	return out
}

func (g *Graph) selfLoop(v int) bool {
	for _, e := range g.nodes[v].Edges {
		if e.Target == v {
			return true
		}
	}
	return false
}

// FindChain returns the shortest dependency path between two files by
// breadth-first search over edges in insertion order.
func (g *Graph) FindChain(from, to string) ([]string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	src, ok := g.index[from]
	if !ok {
		return nil, false
	}
	dst, ok := g.index[to]
	if !ok {
		return nil, false
	}
	if src == dst {
		return []string{g.nodes[src].Path}, true
	}

	prev := make(map[int]int)
	visited := map[int]bool{src: true}
	queue := []int{src}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, e := range g.nodes[curr].Edges {
			next := e.Target
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = curr
			if next == dst {
				path := []string{g.nodes[dst].Path}
				for n := dst; n != src; {
					n = prev[n]
					path = append(path, g.nodes[n].Path)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}
