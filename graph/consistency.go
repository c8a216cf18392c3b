package graph

import (
	"fmt"

	"github.com/graphia-go/graphon/handle"
)

// Violation describes one failed invariant check. The checker never
// modifies graph state; it only reports.
type Violation struct {
	Message string
}

func (v Violation) String() string { return v.Message }

// ConsistencyChecker verifies the debug-time invariants spec.md §4.4
// describes: every edge's endpoints exist, every incidence-set entry
// corresponds to a real edge whose endpoint matches the set's owner, and
// every list-node invariant of the incidence collections holds. It is a
// real struct (SPEC_FULL.md §5.1), not the source's "_debug" print flag:
// callers decide what to do with the returned violations (log, fail a
// test, surface a diagnostic) instead of the check silently printing.
type ConsistencyChecker struct{}

// NewConsistencyChecker returns a ready-to-use checker. It carries no
// state of its own.
func NewConsistencyChecker() *ConsistencyChecker { return &ConsistencyChecker{} }

// Check runs every invariant against g and returns the violations found,
// or an empty (possibly nil) slice if g is consistent.
func (c *ConsistencyChecker) Check(g *MutableGraph) []Violation {
	var violations []Violation

	for i := range g.edges {
		if !g.edges[i].inUse {
			continue
		}
		h := handle.EdgeHandle(i)
		e := g.edges[i]
		if !g.ContainsNode(e.source) {
			violations = append(violations, Violation{fmt.Sprintf("edge %s: source %s not in graph", h, e.source)})
		}
		if !g.ContainsNode(e.target) {
			violations = append(violations, Violation{fmt.Sprintf("edge %s: target %s not in graph", h, e.target)})
		}
	}

	for i := range g.nodes {
		if !g.nodes[i].inUse {
			continue
		}
		h := handle.NodeHandle(i)

		outgoing, err := g.outgoingEdges.Members(g.nodes[i].outgoingHead)
		if err != nil {
			violations = append(violations, Violation{fmt.Sprintf("node %s: outgoing incidence set corrupt: %v", h, err)})
		}
		for _, e := range outgoing {
			if !g.ContainsEdge(e) || g.edges[e.Index()].source != h {
				violations = append(violations, Violation{fmt.Sprintf("node %s: outgoing set contains edge %s whose source does not match", h, e)})
			}
		}

		incoming, err := g.incomingEdges.Members(g.nodes[i].incomingHead)
		if err != nil {
			violations = append(violations, Violation{fmt.Sprintf("node %s: incoming incidence set corrupt: %v", h, err)})
		}
		for _, e := range incoming {
			if !g.ContainsEdge(e) || g.edges[e.Index()].target != h {
				violations = append(violations, Violation{fmt.Sprintf("node %s: incoming set contains edge %s whose target does not match", h, e)})
			}
		}

		if t, err := g.mergedNodes.TypeOf(h); err == nil && t == Tail {
			if head, err := g.mergedNodes.Head(h); err != nil || !g.ContainsNode(head) {
				violations = append(violations, Violation{fmt.Sprintf("node %s: Tail whose group head is not in graph", h)})
			}
		}
	}

	for i := range g.edges {
		if !g.edges[i].inUse {
			continue
		}
		h := handle.EdgeHandle(i)
		if t, err := g.mergedEdges.TypeOf(h); err == nil && t == Tail {
			if head, err := g.mergedEdges.Head(h); err != nil || !g.ContainsEdge(head) {
				violations = append(violations, Violation{fmt.Sprintf("edge %s: Tail whose group head is not in graph", h)})
			}
		}
	}

	return violations
}
