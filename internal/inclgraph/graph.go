// Package inclgraph implements the per-TU and merged global inclusion
// graph (component D): a directed graph over file paths modeling the
// "is-included-by" relation, backed by gonum's graph primitives the way
// the retrieval pack's own dependency-graph tooling (distri's batch
// builder, built on gonum.org/v1/gonum/graph/simple and graph/topo) is.
package inclgraph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// node is a gonum graph.Node wrapping one canonicalized absolute path.
type node struct {
	id   int64
	path string
}

func (n *node) ID() int64 { return n.id }

// InclusionGraph is a directed graph whose edges model "A is included by
// B" as an edge A → B (spec.md §3/§4.D). It is built by one producer
// (the TU parser wrapper) then owned by the controller that merges it
// into the global graph.
type InclusionGraph struct {
	g      *simple.DirectedGraph
	byPath map[string]*node
	nextID int64
}

// New returns an empty inclusion graph.
func New() *InclusionGraph {
	return &InclusionGraph{
		g:      simple.NewDirectedGraph(),
		byPath: make(map[string]*node),
	}
}

func (ig *InclusionGraph) getOrCreate(path string) *node {
	if n, ok := ig.byPath[path]; ok {
		return n
	}
	n := &node{id: ig.nextID, path: path}
	ig.nextID++
	ig.byPath[path] = n
	ig.g.AddNode(n)
	return n
}

// AddInclusion records that `to` is included by `from`, adding an edge
// to → from. Nodes are created as needed. Adding the same edge twice is
// a no-op (P7).
func (ig *InclusionGraph) AddInclusion(to, from string) {
	toNode := ig.getOrCreate(to)
	fromNode := ig.getOrCreate(from)
	if ig.g.HasEdgeFromTo(toNode.ID(), fromNode.ID()) {
		return
	}
	ig.g.SetEdge(ig.g.NewEdge(toNode, fromNode))
}

// Contains reports whether path is a node in the graph (used by the
// watcher to decide which per-command graphs reference a changed file).
func (ig *InclusionGraph) Contains(path string) bool {
	_, ok := ig.byPath[path]
	return ok
}

// NodeCount returns the number of distinct file nodes in the graph.
func (ig *InclusionGraph) NodeCount() int {
	return ig.g.Nodes().Len()
}

// IterateFileNames returns all node paths in a stable (sorted) order.
func (ig *InclusionGraph) IterateFileNames() []string {
	names := make([]string, 0, len(ig.byPath))
	for p := range ig.byPath {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// Merge unions other's nodes and edges into ig (P3: the merged global
// graph after a run equals the set union of per-TU graphs).
func (ig *InclusionGraph) Merge(other *InclusionGraph) {
	if other == nil {
		return
	}
	for _, p := range other.IterateFileNames() {
		ig.getOrCreate(p)
	}
	edges := other.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		from := e.From().(*node).path
		to := e.To().(*node).path
		ig.AddInclusion(from, to)
	}
}

// outEdgePaths returns, for the given node path, the paths reachable by
// one outgoing edge (to → from order, i.e. "is included by"), sorted.
func (ig *InclusionGraph) outEdgePaths(path string) []string {
	n, ok := ig.byPath[path]
	if !ok {
		return nil
	}
	it := ig.g.From(n.ID())
	var out []string
	for it.Next() {
		out = append(out, it.Node().(*node).path)
	}
	sort.Strings(out)
	return out
}

var _ graph.Directed = (*simple.DirectedGraph)(nil)
