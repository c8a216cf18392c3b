package graph_test

import (
	"testing"

	"github.com/graphia-go/graphon/graph"
)

func TestConsistencyCheckerCleanGraph(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	mustAddEdge(t, g, n0, n1)

	if v := graph.NewConsistencyChecker().Check(g); len(v) != 0 {
		t.Fatalf("clean graph reported violations: %v", v)
	}
}

func TestConsistencyCheckerAfterContraction(t *testing.T) {
	g := graph.New()
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	n2 := mustAddNode(t, g)
	e0 := mustAddEdge(t, g, n0, n1)
	mustAddEdge(t, g, n1, n2)

	if err := g.ContractEdge(e0); err != nil {
		t.Fatalf("ContractEdge: %v", err)
	}

	if v := graph.NewConsistencyChecker().Check(g); len(v) != 0 {
		t.Fatalf("post-contraction graph reported violations: %v", v)
	}
}

func TestWithConsistencyCheckingOptionDoesNotFailTransactions(t *testing.T) {
	g := graph.New(graph.WithConsistencyChecking())
	n0 := mustAddNode(t, g)
	n1 := mustAddNode(t, g)
	if _, err := g.AddEdge(n0, n1); err != nil {
		t.Fatalf("AddEdge under consistency checking: %v", err)
	}
	if v := g.LastConsistencyViolations(); len(v) != 0 {
		t.Fatalf("well-formed graph recorded violations: %v", v)
	}
}
