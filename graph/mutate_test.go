package graph_test

import (
	"testing"

	"github.com/graphia-go/graphon/graph"
	"github.com/graphia-go/graphon/handle"
)

func TestRemoveNodeUnknownHandle(t *testing.T) {
	g := graph.New()
	if err := g.RemoveNode(handle.NodeHandle(7)); err != graph.ErrNotInGraph {
		t.Fatalf("err = %v, want ErrNotInGraph", err)
	}
}

func TestContractEdgeSelfLoopIsNoOp(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	e := mustAddEdge(t, g, n0, n0)

	if err := g.ContractEdge(e); err != nil {
		t.Fatalf("ContractEdge self-loop: %v", err)
	}
	if g.ContainsEdge(e) {
		t.Fatalf("self-loop edge should be removed")
	}
	if !g.ContainsNode(n0) {
		t.Fatalf("n0 should survive")
	}
	if g.NodeType(n0) != graph.Not {
		t.Fatalf("n0 type = %v, want Not (self-loop contraction merges nothing)", g.NodeType(n0))
	}
}

func TestContractEdgesSequential(t *testing.T) {
	// A 4-node chain N0-N1-N2-N3; contracting both end edges should leave
	// one three-node group headed at N0.
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	n3 := mustAddNode(t, g)
	e0 := mustAddEdge(t, g, n0, n1)
	e1 := mustAddEdge(t, g, n1, n2)
	mustAddEdge(t, g, n2, n3)

	if err := g.ContractEdges([]handle.EdgeHandle{e0, e1}); err != nil {
		t.Fatalf("ContractEdges: %v", err)
	}

	if g.NodeType(n0) != graph.Head {
		t.Fatalf("n0 type = %v, want Head", g.NodeType(n0))
	}
	members, err := g.MergedNodesOf(n0)
	if err != nil {
		t.Fatalf("MergedNodesOf: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("merged group size = %d, want 3: %v", len(members), members)
	}
	if !g.EdgeExistsBetween(n0, n3) {
		t.Fatalf("n0 should now have an edge to n3 (reparented from n2)")
	}
}

func TestMergeEdgesHeadIsMin(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	e0 := mustAddEdge(t, g, n0, n1)
	e1 := mustAddEdge(t, g, n1, n2)

	if err := g.MergeEdges(e1, e0); err != nil {
		t.Fatalf("MergeEdges: %v", err)
	}
	members, err := g.MergedEdgesOf(e0)
	if err != nil {
		t.Fatalf("MergedEdgesOf: %v", err)
	}
	if len(members) != 2 || members[0] != e0 {
		t.Fatalf("MergedEdgesOf(e0) = %v, want head-first starting with e0", members)
	}
	if g.EdgeType(e0) != graph.Head {
		t.Fatalf("e0 type = %v, want Head", g.EdgeType(e0))
	}
	if g.EdgeType(e1) != graph.Tail {
		t.Fatalf("e1 type = %v, want Tail", g.EdgeType(e1))
	}
	mult, _ := g.MultiplicityOfEdge(e1)
	if mult != 0 {
		t.Fatalf("multiplicity(e1) = %d, want 0", mult)
	}
}

func TestMergeNodesListMergesAllIntoOneGroup(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)

	if err := g.MergeNodesList([]handle.NodeHandle{n1, n2, n0}); err != nil {
		t.Fatalf("MergeNodesList: %v", err)
	}
	members, err := g.MergedNodesOf(n0)
	if err != nil {
		t.Fatalf("MergedNodesOf: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("merged group size = %d, want 3", len(members))
	}
	mult, _ := g.MultiplicityOfNode(n0)
	if g.NodeType(n0) == graph.Head && mult != 3 {
		t.Fatalf("head multiplicity = %d, want 3", mult)
	}
}

func TestAddNodeWithHandleRejectsDuplicate(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	if err := g.AddNodeWithHandle(n0); err != graph.ErrDuplicateHandle {
		t.Fatalf("err = %v, want ErrDuplicateHandle", err)
	}
}

func TestNeighboursOfIsDirectionAgnosticAndDeduped(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	mustAddEdge(t, g, n0, n1)
	mustAddEdge(t, g, n1, n0)

	neighbours, err := g.NeighboursOf(n0)
	if err != nil {
		t.Fatalf("NeighboursOf: %v", err)
	}
	if len(neighbours) != 1 || neighbours[0] != n1 {
		t.Fatalf("NeighboursOf(n0) = %v, want [n1] deduplicated", neighbours)
	}
}
