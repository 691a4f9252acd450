package crate

// DependencyGraph holds classes and the ordered names they depend on.
type DependencyGraph struct {
	nodes map[ServiceName]*node
	order []ServiceName // Preserve insertion order
}

type node struct {
	name         ServiceName
	dependencies []ServiceName
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[ServiceName]*node),
		order: make([]ServiceName, 0),
	}
}

// AddNode adds a node with its dependencies in declaration order.
// Adding an existing name replaces its dependencies but keeps its position.
func (g *DependencyGraph) AddNode(name ServiceName, dependencies []ServiceName) {
	if _, exists := g.nodes[name]; !exists {
		g.order = append(g.order, name)
	}

	g.nodes[name] = &node{
		name:         name,
		dependencies: dependencies,
	}
}

// GetDependencies returns the dependency names for a node.
func (g *DependencyGraph) GetDependencies(name ServiceName) []ServiceName {
	if node, ok := g.nodes[name]; ok {
		return node.dependencies
	}

	return nil
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(name ServiceName) bool {
	_, ok := g.nodes[name]

	return ok
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// TopologicalSort returns every node in dependency order: depth-first,
// left to right over dependencies, dependencies before dependents. Nodes
// nobody depends on keep their insertion order. Names that are not nodes
// are skipped.
func (g *DependencyGraph) TopologicalSort() ([]ServiceName, error) {
	w := g.newWalk()

	for _, name := range g.order {
		if err := w.visit(name); err != nil {
			return nil, err
		}
	}

	return w.result, nil
}

// SortFrom returns the nodes reachable from root in the order a recursive
// resolution of root would finish them, root last.
func (g *DependencyGraph) SortFrom(root ServiceName) ([]ServiceName, error) {
	w := g.newWalk()

	if err := w.visit(root); err != nil {
		return nil, err
	}

	return w.result, nil
}

// walk is the DFS state shared by the sort entry points.
type walk struct {
	g       *DependencyGraph
	visited map[ServiceName]bool
	onPath  map[ServiceName]int
	path    []ServiceName
	result  []ServiceName
}

func (g *DependencyGraph) newWalk() *walk {
	return &walk{
		g:       g,
		visited: make(map[ServiceName]bool),
		onPath:  make(map[ServiceName]int),
		result:  make([]ServiceName, 0, len(g.nodes)),
	}
}

// visit performs DFS traversal.
func (w *walk) visit(name ServiceName) error {
	if w.visited[name] {
		return nil
	}

	if start, ok := w.onPath[name]; ok {
		cycle := append([]ServiceName{}, w.path[start:]...)
		cycle = append(cycle, name)

		return ErrCyclicDependency(cycle)
	}

	node := w.g.nodes[name]
	if node == nil {
		return nil
	}

	w.onPath[name] = len(w.path)
	w.path = append(w.path, name)

	for _, dep := range node.dependencies {
		if err := w.visit(dep); err != nil {
			return err
		}
	}

	w.path = w.path[:len(w.path)-1]
	delete(w.onPath, name)
	w.visited[name] = true
	w.result = append(w.result, name)

	return nil
}
