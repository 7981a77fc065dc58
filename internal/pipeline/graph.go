// Package pipeline orders report steps by their dependencies.
package pipeline

import "fmt"

// Graph holds steps and their ordering constraints. Steps keep the order in
// which they were added; that order breaks ties during sorting.
type Graph struct {
	order    []string
	index    map[string]int
	Children map[string][]string // step -> steps that depend on it
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:    make(map[string]int),
		Children: make(map[string][]string),
	}
}

// AddNode registers a step. Names must be unique.
func (g *Graph) AddNode(name string) error {
	if _, exists := g.index[name]; exists {
		return fmt.Errorf("step %q already registered", name)
	}
	g.index[name] = len(g.order)
	g.order = append(g.order, name)
	return nil
}

// AddEdge records that from must run before to. Both steps must exist.
func (g *Graph) AddEdge(from, to string) error {
	if !g.HasNode(from) {
		return fmt.Errorf("unknown step %q", from)
	}
	if !g.HasNode(to) {
		return fmt.Errorf("unknown step %q", to)
	}
	g.Children[from] = append(g.Children[from], to)
	return nil
}

// HasNode returns true if the graph contains the step.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.index[name]
	return exists
}

// GetChildren returns the steps that directly depend on name.
func (g *Graph) GetChildren(name string) []string {
	return g.Children[name]
}
