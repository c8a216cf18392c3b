package graph_test

import (
	"testing"

	"github.com/graphia-go/graphon/graph"
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/notify"
)

func mustAddNode(t *testing.T, g *graph.MutableGraph) handle.NodeHandle {
	t.Helper()
	n, err := g.AddNode()
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return n
}

func mustAddEdge(t *testing.T, g *graph.MutableGraph, src, tgt handle.NodeHandle) handle.EdgeHandle {
	t.Helper()
	e, err := g.AddEdge(src, tgt)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return e
}

func TestAddNodeAndEdge(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	e := mustAddEdge(t, g, n0, n1)

	if !g.ContainsNode(n0) || !g.ContainsNode(n1) {
		t.Fatalf("expected both nodes present")
	}
	if !g.ContainsEdge(e) {
		t.Fatalf("expected edge present")
	}

	src, err := g.SourceOf(e)
	if err != nil || src != n0 {
		t.Fatalf("SourceOf = %v, %v; want %v, nil", src, err, n0)
	}
	tgt, err := g.TargetOf(e)
	if err != nil || tgt != n1 {
		t.Fatalf("TargetOf = %v, %v; want %v, nil", tgt, err, n1)
	}

	if !g.EdgeExistsBetween(n0, n1) {
		t.Fatalf("EdgeExistsBetween(n0, n1) = false, want true")
	}
}

func TestAddEdgeNoSuchNode(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	_, err := g.AddEdge(n0, handle.NodeHandle(99))
	if err != graph.ErrNoSuchNode {
		t.Fatalf("err = %v, want ErrNoSuchNode", err)
	}
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	e0 := mustAddEdge(t, g, n0, n1)
	e1 := mustAddEdge(t, g, n1, n2)

	if err := g.RemoveNode(n1); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.ContainsEdge(e0) || g.ContainsEdge(e1) {
		t.Fatalf("expected both incident edges removed")
	}
	if g.ContainsNode(n1) {
		t.Fatalf("n1 should be removed")
	}
	if !g.ContainsNode(n0) || !g.ContainsNode(n2) {
		t.Fatalf("n0 and n2 should remain")
	}
}

func TestHandleReuseIsFIFO(t *testing.T) {
	// Scenario 4: add N0,N1,N2 (handles 0,1,2). Remove N1, then N0. Add
	// two new nodes; they receive handles 1 then 0.
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	_ = n2

	if err := g.RemoveNode(n1); err != nil {
		t.Fatalf("RemoveNode(n1): %v", err)
	}
	if err := g.RemoveNode(n0); err != nil {
		t.Fatalf("RemoveNode(n0): %v", err)
	}

	r1 := mustAddNode(t, g)
	r2 := mustAddNode(t, g)

	if r1 != n1 {
		t.Fatalf("first reused handle = %v, want %v", r1, n1)
	}
	if r2 != n0 {
		t.Fatalf("second reused handle = %v, want %v", r2, n0)
	}
}

func TestEdgesOfMergesIncomingAndOutgoing(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	out := mustAddEdge(t, g, n1, n0)
	in := mustAddEdge(t, g, n0, n2)
	loop := mustAddEdge(t, g, n0, n0)

	edges, err := g.EdgesOf(n0)
	if err != nil {
		t.Fatalf("EdgesOf: %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("EdgesOf(n0) = %v, want 3 distinct edges", edges)
	}
	seen := map[handle.EdgeHandle]bool{}
	for _, e := range edges {
		seen[e] = true
	}
	for _, want := range []handle.EdgeHandle{out, in, loop} {
		if !seen[want] {
			t.Fatalf("EdgesOf(n0) = %v, missing %v", edges, want)
		}
	}
}

func TestContractEdge(t *testing.T) {
	// Scenario 3.
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	e0 := mustAddEdge(t, g, n0, n1)
	e1 := mustAddEdge(t, g, n1, n2)

	if err := g.ContractEdge(e0); err != nil {
		t.Fatalf("ContractEdge: %v", err)
	}

	if g.ContainsEdge(e0) {
		t.Fatalf("e0 should be gone after contraction")
	}
	if !g.ContainsEdge(e1) {
		t.Fatalf("e1 should survive contraction")
	}
	src, err := g.SourceOf(e1)
	if err != nil || src != n0 {
		t.Fatalf("e1's source after contraction = %v, %v; want %v", src, err, n0)
	}

	if g.NodeType(n1) != graph.Tail {
		t.Fatalf("n1 type = %v, want Tail", g.NodeType(n1))
	}
	mult0, _ := g.MultiplicityOfNode(n0)
	if mult0 != 2 {
		t.Fatalf("multiplicity(n0) = %d, want 2", mult0)
	}
	mult1, _ := g.MultiplicityOfNode(n1)
	if mult1 != 0 {
		t.Fatalf("multiplicity(n1) = %d, want 0", mult1)
	}
}

func TestMergeNodesHeadIsMin(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)

	if err := g.MergeNodes(n1, n0); err != nil {
		t.Fatalf("MergeNodes: %v", err)
	}
	members, err := g.MergedNodesOf(n0)
	if err != nil {
		t.Fatalf("MergedNodesOf: %v", err)
	}
	if len(members) != 2 || members[0] != n0 {
		t.Fatalf("MergedNodesOf(n0) = %v, want head-first list starting with n0", members)
	}
}

func TestDiffToSelfIsEmpty(t *testing.T) {
	g := graph.New()
	mustAddNode(t, g)
	d := g.DiffTo(g)
	if !d.Empty() {
		t.Fatalf("DiffTo(self) = %+v, want empty", d)
	}
}

func TestCloneFromReproducesState(t *testing.T) {
	src := graph.New()
	n0 := mustAddNode(t, src)
	n1 := mustAddNode(t, src)
	mustAddEdge(t, src, n0, n1)

	dst := graph.New()
	if err := dst.CloneFrom(src); err != nil {
		t.Fatalf("CloneFrom: %v", err)
	}

	if !dst.ContainsNode(n0) || !dst.ContainsNode(n1) {
		t.Fatalf("clone missing nodes")
	}
	if !dst.EdgeExistsBetween(n0, n1) {
		t.Fatalf("clone missing edge")
	}

	d := dst.DiffTo(src)
	if !d.Empty() {
		t.Fatalf("clone should be structurally equal to source, diff = %+v", d)
	}
}

func TestTransactionEventOrdering(t *testing.T) {
	g := graph.New()
	var kinds []notify.Kind
	g.Bus().Subscribe(func(ev notify.Event) {
		kinds = append(kinds, ev.Kind)
	})

	mustAddNode(t, g)

	want := []notify.Kind{
		notify.TransactionWillBegin,
		notify.GraphWillChange,
		notify.NodeAdded,
		notify.GraphChanged,
		notify.TransactionEnded,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events %v, want %d %v", len(kinds), kinds, len(want), want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d = %v, want %v (full: %v)", i, kinds[i], want[i], kinds)
		}
	}
}
