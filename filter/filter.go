// Package filter implements FilterSet/ElementFilter (spec.md §4.8): a
// predicate stack that hides nodes and edges from traversal and
// component tracking without mutating the graph itself.
//
// A Set is built once, at tracker construction time, and not mutated
// afterward (spec.md §4.8: "Filters are set once at tracker construction
// and not mutated afterward"). Composition is logical OR across
// rejection predicates: a handle is filtered if ANY predicate says so,
// which is equivalent to ANDing the predicates' acceptance sense.
//
// This generalizes the teacher's core.Graph.FilterEdges(pred func(*Edge)
// bool), which eagerly removes matching edges from a single predicate,
// into a lazily-evaluated stack of predicates that composes and never
// mutates the graph — component.Tracker consults it on every BFS step
// instead of the graph's own storage being altered.
package filter

import (
	"github.com/graphia-go/graphon/graph"
	"github.com/graphia-go/graphon/handle"
)

// NodePredicate reports whether a node should be rejected (filtered out).
type NodePredicate func(g *graph.MutableGraph, h handle.NodeHandle) bool

// EdgePredicate reports whether an edge should be rejected (filtered out).
type EdgePredicate func(g *graph.MutableGraph, h handle.EdgeHandle) bool

// Set holds the node and edge predicate stacks applied by a
// component.Tracker or any other consumer that needs to reason about a
// filtered view of a graph without mutating it.
type Set struct {
	nodePreds []NodePredicate
	edgePreds []EdgePredicate
}

// New returns an empty Set. An empty Set accepts every element (spec.md
// §4.8: "Empty filter sets accept everything").
func New() *Set {
	return &Set{}
}

// AddNodeFilter appends a node predicate to the stack. Filters compose
// by rejection: a node is filtered if any registered predicate rejects
// it.
func (s *Set) AddNodeFilter(p NodePredicate) {
	s.nodePreds = append(s.nodePreds, p)
}

// AddEdgeFilter appends an edge predicate to the stack.
func (s *Set) AddEdgeFilter(p EdgePredicate) {
	s.edgePreds = append(s.edgePreds, p)
}

// IsNodeFiltered reports whether h should be hidden under this Set.
func (s *Set) IsNodeFiltered(g *graph.MutableGraph, h handle.NodeHandle) bool {
	for _, p := range s.nodePreds {
		if p(g, h) {
			return true
		}
	}
	return false
}

// IsEdgeFiltered reports whether h should be hidden under this Set.
func (s *Set) IsEdgeFiltered(g *graph.MutableGraph, h handle.EdgeHandle) bool {
	for _, p := range s.edgePreds {
		if p(g, h) {
			return true
		}
	}
	return false
}

// DefaultTailFilter rejects any node or edge that is a Tail (a
// non-distinguished member of a multi-element group), per spec.md
// Scenario 6: "The default ComponentTracker... always filters tails".
// component.NewTracker ANDs this in with any caller-supplied filter
// unless explicitly disabled, resolving spec.md §9 Open Question 1.
func DefaultTailFilter() *Set {
	s := New()
	s.AddNodeFilter(func(g *graph.MutableGraph, h handle.NodeHandle) bool {
		return g.NodeType(h) == graph.Tail
	})
	s.AddEdgeFilter(func(g *graph.MutableGraph, h handle.EdgeHandle) bool {
		return g.EdgeType(h) == graph.Tail
	})
	return s
}

// Merge returns a Set whose predicate stacks are the concatenation of
// every input Set's stacks, composing by rejection (a handle filtered by
// any input Set is filtered by the result). Nil Sets are skipped.
func Merge(sets ...*Set) *Set {
	out := New()
	for _, s := range sets {
		if s == nil {
			continue
		}
		out.nodePreds = append(out.nodePreds, s.nodePreds...)
		out.edgePreds = append(out.edgePreds, s.edgePreds...)
	}
	return out
}
