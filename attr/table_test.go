package attr_test

import (
	"testing"

	"github.com/graphia-go/graphon/attr"
	"github.com/graphia-go/graphon/graph"
)

func TestNodeTableAutoInitializesNewNodes(t *testing.T) {
	g := graph.New()
	labels := attr.NewNodeTable(g, func() string { return "unlabeled" })

	n, err := g.AddNode()
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	v, err := labels.Get(n)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "unlabeled" {
		t.Fatalf("got %q, want default %q", v, "unlabeled")
	}

	if err := labels.Set(n, "a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ = labels.Get(n)
	if v != "a" {
		t.Fatalf("got %q after Set, want %q", v, "a")
	}
}

func TestNodeTableSeedsExistingNodesAtConstruction(t *testing.T) {
	g := graph.New()
	n, err := g.AddNode()
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	counts := attr.NewNodeTable(g, func() int { return 7 })
	v, err := counts.Get(n)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 7 {
		t.Fatalf("got %d, want seeded default 7", v)
	}
}

func TestNodeTableClearsOnRemoval(t *testing.T) {
	g := graph.New()
	weights := attr.NewNodeTable(g, func() float64 { return 1 })

	n, err := g.AddNode()
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := weights.Set(n, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := g.RemoveNode(n); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	v, err := weights.Get(n)
	if err != nil {
		t.Fatalf("Get after removal: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %v after removal, want zero value", v)
	}
}

func TestEdgeTableTracksEdgeLifecycle(t *testing.T) {
	g := graph.New()
	n0, _ := g.AddNode()
	n1, _ := g.AddNode()

	weights := attr.NewEdgeTable(g, func() float64 { return -1 })

	e, err := g.AddEdge(n0, n1)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	v, err := weights.Get(e)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != -1 {
		t.Fatalf("got %v, want default -1", v)
	}

	if err := weights.Set(e, 3.5); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := g.RemoveEdge(e); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	v, err = weights.Get(e)
	if err != nil {
		t.Fatalf("Get after removal: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %v after removal, want zero value", v)
	}
}

func TestTableCloseStopsTracking(t *testing.T) {
	g := graph.New()
	labels := attr.NewNodeTable(g, func() string { return "x" })
	labels.Close()

	n, err := g.AddNode()
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	if _, err := labels.Get(n); err == nil {
		t.Fatalf("expected Get on a closed table to fail, backing array is invalidated")
	}
}
