package graph_test

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/graphia-go/graphon/graph"
	"github.com/graphia-go/graphon/handle"
)

// TestQuantifiedInvariantsHoldAfterEveryTransaction drives spec.md §8's
// quantified invariants (1-3, 6) against random add/remove/merge
// sequences: gopter supplies the seed and op count, every individual
// operation is its own transaction, and the checker runs after each one.
func TestQuantifiedInvariantsHoldAfterEveryTransaction(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("random op sequences stay structurally consistent", prop.ForAll(
		func(seed int64, opCount int) bool {
			return runRandomSequence(t, seed, opCount)
		},
		gen.Int64Range(1, 1<<30),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}

func runRandomSequence(t *testing.T, seed int64, opCount int) bool {
	g := graph.New()
	rng := rand.New(rand.NewSource(seed))
	checker := graph.NewConsistencyChecker()

	var liveNodes []handle.NodeHandle
	var liveEdges []handle.EdgeHandle

	check := func() bool {
		if v := checker.Check(g); len(v) != 0 {
			t.Logf("seed=%d: consistency violations: %v", seed, v)
			return false
		}
		for _, h := range liveNodes {
			switch g.NodeType(h) {
			case graph.Not, graph.Head, graph.Tail:
			default:
				t.Logf("seed=%d: node %s has invalid type %v", seed, h, g.NodeType(h))
				return false
			}
			if g.NodeType(h) == graph.Tail {
				if _, err := g.MultiplicityOfNode(h); err != nil {
					t.Logf("seed=%d: tail node %s: %v", seed, h, err)
					return false
				}
			}
		}
		return true
	}

	for i := 0; i < opCount; i++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(liveNodes) == 0:
			before := g.NextNodeHandle()
			h, err := g.AddNode()
			if err != nil {
				return false
			}
			reused := h != before
			_ = reused // free-list reuse or fresh counter value, both legal (§8 item 6)
			liveNodes = append(liveNodes, h)
		case op == 1 && len(liveNodes) >= 2:
			a := liveNodes[rng.Intn(len(liveNodes))]
			b := liveNodes[rng.Intn(len(liveNodes))]
			if a == b {
				continue
			}
			e, err := g.AddEdge(a, b)
			if err == nil {
				liveEdges = append(liveEdges, e)
			}
		case op == 2 && len(liveNodes) > 0:
			idx := rng.Intn(len(liveNodes))
			h := liveNodes[idx]
			if err := g.RemoveNode(h); err == nil {
				liveNodes = append(liveNodes[:idx], liveNodes[idx+1:]...)
			}
		case op == 3 && len(liveNodes) >= 2:
			a := liveNodes[rng.Intn(len(liveNodes))]
			b := liveNodes[rng.Intn(len(liveNodes))]
			if a == b {
				continue
			}
			_ = g.MergeNodes(a, b)
		}
		_ = liveEdges
		if !check() {
			return false
		}
	}
	return true
}
