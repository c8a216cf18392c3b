package graph

import (
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/notify"
)

// Diff is the structural delta spec.md §4.4's diffTo computes: which
// handles are present in the target graph but not the receiver (Added)
// and vice versa (Removed).
type Diff struct {
	NodesAdded, NodesRemoved []handle.NodeHandle
	EdgesAdded, EdgesRemoved []handle.EdgeHandle
}

// Empty reports whether the diff describes no change at all.
func (d Diff) Empty() bool {
	return len(d.NodesAdded) == 0 && len(d.NodesRemoved) == 0 &&
		len(d.EdgesAdded) == 0 && len(d.EdgesRemoved) == 0
}

// DiffTo compares g's in-use bits against other's and reports the
// structural change that would bring g to match other. DiffTo(g) (i.e.
// comparing a graph to itself) is always empty.
func (g *MutableGraph) DiffTo(other *MutableGraph) Diff {
	var d Diff

	maxN := len(g.nodes)
	if len(other.nodes) > maxN {
		maxN = len(other.nodes)
	}
	for i := 0; i < maxN; i++ {
		gIn := i < len(g.nodes) && g.nodes[i].inUse
		oIn := i < len(other.nodes) && other.nodes[i].inUse
		h := handle.NodeHandle(i)
		switch {
		case oIn && !gIn:
			d.NodesAdded = append(d.NodesAdded, h)
		case gIn && !oIn:
			d.NodesRemoved = append(d.NodesRemoved, h)
		}
	}

	maxE := len(g.edges)
	if len(other.edges) > maxE {
		maxE = len(other.edges)
	}
	for i := 0; i < maxE; i++ {
		gIn := i < len(g.edges) && g.edges[i].inUse
		oIn := i < len(other.edges) && other.edges[i].inUse
		h := handle.EdgeHandle(i)
		switch {
		case oIn && !gIn:
			d.EdgesAdded = append(d.EdgesAdded, h)
		case gIn && !oIn:
			d.EdgesRemoved = append(d.EdgesRemoved, h)
		}
	}

	return d
}

// CloneFrom takes the diff against other first, copy-assigns all of
// other's internal state onto g, fixes up the copied incidence
// collections so they are backed by g's own registries rather than
// aliasing other's, then fires add/remove notifications for exactly the
// handles the diff identified.
func (g *MutableGraph) CloneFrom(other *MutableGraph) error {
	return g.withTransactionErr(func() (bool, error) {
		d := g.DiffTo(other)

		newOut := other.outgoingEdges.CloneInto(g.edgeReg)
		newIn := other.incomingEdges.CloneInto(g.edgeReg)
		newMergedNodes := other.mergedNodes.CloneInto(g.nodeReg)
		newMergedEdges := other.mergedEdges.CloneInto(g.edgeReg)

		newNodes := append([]node(nil), other.nodes...)
		newEdges := append([]edge(nil), other.edges...)
		newFreeNodes := append([]handle.NodeHandle(nil), other.freeNodes...)
		newFreeEdges := append([]handle.EdgeHandle(nil), other.freeEdges...)
		newOrderedNodes := append([]handle.NodeHandle(nil), other.orderedNodes...)
		newOrderedEdges := append([]handle.EdgeHandle(nil), other.orderedEdges...)
		newUndirectedIndex := make(map[undirectedKey][]handle.EdgeHandle, len(other.undirectedIndex))
		for k, v := range other.undirectedIndex {
			cp := append([]handle.EdgeHandle(nil), v...)
			newUndirectedIndex[k] = cp
		}

		g.outgoingEdges.Invalidate()
		g.incomingEdges.Invalidate()
		g.mergedNodes.Invalidate()
		g.mergedEdges.Invalidate()

		g.outgoingEdges = newOut
		g.incomingEdges = newIn
		g.mergedNodes = newMergedNodes
		g.mergedEdges = newMergedEdges

		g.nodes = newNodes
		g.edges = newEdges
		g.nextNode = other.nextNode
		g.nextEdge = other.nextEdge
		g.freeNodes = newFreeNodes
		g.freeEdges = newFreeEdges
		g.orderedNodes = newOrderedNodes
		g.orderedEdges = newOrderedEdges
		g.undirectedIndex = newUndirectedIndex
		g.directed = other.directed

		g.nodeReg.GrowTo(len(g.nodes))
		g.edgeReg.GrowTo(len(g.edges))

		for _, h := range d.NodesRemoved {
			g.bus.Publish(notify.Event{Kind: notify.NodeRemoved, Node: h})
		}
		for _, h := range d.EdgesRemoved {
			g.bus.Publish(notify.Event{Kind: notify.EdgeRemoved, Edge: h})
		}
		for _, h := range d.NodesAdded {
			g.bus.Publish(notify.Event{Kind: notify.NodeAdded, Node: h})
		}
		for _, h := range d.EdgesAdded {
			g.bus.Publish(notify.Event{Kind: notify.EdgeAdded, Edge: h})
		}

		return !d.Empty(), nil
	})
}
