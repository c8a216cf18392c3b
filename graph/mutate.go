package graph

import (
	"github.com/graphia-go/graphon/dset"
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/notify"
)

// AddNode allocates a new node, drawing from the free list first, and
// fires nodeAdded.
func (g *MutableGraph) AddNode() (handle.NodeHandle, error) {
	var h handle.NodeHandle
	g.withTransaction(func() bool {
		h = g.allocNode()
		g.nodes[h.Index()] = node{inUse: true, multiplicity: 1, outgoingHead: handle.NullEdge, incomingHead: handle.NullEdge}
		g.orderedNodes = append(g.orderedNodes, h)
		g.bus.Publish(notify.Event{Kind: notify.NodeAdded, Node: h})
		return true
	})
	return h, nil
}

// AddNodeWithHandle reserves and creates a node at exactly h, failing
// with ErrDuplicateHandle if h is already in use.
func (g *MutableGraph) AddNodeWithHandle(h handle.NodeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		if h.IsNull() {
			return false, ErrNullHandle
		}
		if h.Index() < len(g.nodes) && g.nodes[h.Index()].inUse {
			return false, ErrDuplicateHandle
		}
		if _, err := g.reserveNodeHandleLocked(h); err != nil {
			return false, err
		}
		g.removeFromNodeFreeList(h)
		g.nodes[h.Index()] = node{inUse: true, multiplicity: 1, outgoingHead: handle.NullEdge, incomingHead: handle.NullEdge}
		g.orderedNodes = append(g.orderedNodes, h)
		g.bus.Publish(notify.Event{Kind: notify.NodeAdded, Node: h})
		return true, nil
	})
}

func (g *MutableGraph) removeFromNodeFreeList(h handle.NodeHandle) {
	for i, f := range g.freeNodes {
		if f == h {
			g.freeNodes = append(g.freeNodes[:i], g.freeNodes[i+1:]...)
			return
		}
	}
}

func (g *MutableGraph) removeFromEdgeFreeList(h handle.EdgeHandle) {
	for i, f := range g.freeEdges {
		if f == h {
			g.freeEdges = append(g.freeEdges[:i], g.freeEdges[i+1:]...)
			return
		}
	}
}

// RemoveNode removes every incident edge (incoming first, then
// outgoing), clears any merge membership, and releases the slot.
func (g *MutableGraph) RemoveNode(h handle.NodeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.removeNodeLocked(h)
	})
}

func (g *MutableGraph) removeNodeLocked(h handle.NodeHandle) (bool, error) {
	if h.IsNull() {
		return false, ErrNullHandle
	}
	if h.Index() >= len(g.nodes) || !g.nodes[h.Index()].inUse {
		return false, ErrNotInGraph
	}

	incoming, err := g.incomingEdges.Members(g.nodes[h.Index()].incomingHead)
	if err != nil {
		return false, err
	}
	for _, e := range incoming {
		if e.Index() < len(g.edges) && g.edges[e.Index()].inUse {
			if _, err := g.removeEdgeLocked(e); err != nil {
				return false, err
			}
		}
	}

	outgoing, err := g.outgoingEdges.Members(g.nodes[h.Index()].outgoingHead)
	if err != nil {
		return false, err
	}
	for _, e := range outgoing {
		if e.Index() < len(g.edges) && g.edges[e.Index()].inUse {
			if _, err := g.removeEdgeLocked(e); err != nil {
				return false, err
			}
		}
	}

	if head, err := g.mergedNodes.Head(h); err == nil {
		if _, err := g.mergedNodes.Remove(head, h); err != nil && err != dset.ErrNotAMember {
			return false, err
		}
	}

	g.nodes[h.Index()] = node{}
	g.freeNodes = append(g.freeNodes, h)
	g.bus.Publish(notify.Event{Kind: notify.NodeRemoved, Node: h})
	return true, nil
}

// AddEdge adds a directed edge from src to tgt, failing with
// ErrNoSuchNode if either endpoint is absent.
func (g *MutableGraph) AddEdge(src, tgt handle.NodeHandle) (handle.EdgeHandle, error) {
	var h handle.EdgeHandle
	err := g.withTransactionErr(func() (bool, error) {
		var err error
		h, err = g.addEdgeLocked(handle.NullEdge, src, tgt)
		return err == nil, err
	})
	return h, err
}

// AddEdgeWithEdgeHandle adds a directed edge at exactly h.
func (g *MutableGraph) AddEdgeWithEdgeHandle(h handle.EdgeHandle, src, tgt handle.NodeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		_, err := g.addEdgeLocked(h, src, tgt)
		return err == nil, err
	})
}

func (g *MutableGraph) addEdgeLocked(preferred handle.EdgeHandle, src, tgt handle.NodeHandle) (handle.EdgeHandle, error) {
	if src.IsNull() || tgt.IsNull() {
		return handle.NullEdge, ErrNullHandle
	}
	if src.Index() >= len(g.nodes) || !g.nodes[src.Index()].inUse {
		return handle.NullEdge, ErrNoSuchNode
	}
	if tgt.Index() >= len(g.nodes) || !g.nodes[tgt.Index()].inUse {
		return handle.NullEdge, ErrNoSuchNode
	}

	var h handle.EdgeHandle
	if preferred.IsNull() {
		h = g.allocEdge()
	} else {
		if preferred.Index() < len(g.edges) && g.edges[preferred.Index()].inUse {
			return handle.NullEdge, ErrDuplicateHandle
		}
		if _, err := g.reserveEdgeHandleLocked(preferred); err != nil {
			return handle.NullEdge, err
		}
		g.removeFromEdgeFreeList(preferred)
		h = preferred
	}

	g.edges[h.Index()] = edge{inUse: true, multiplicity: 1, source: src, target: tgt}

	newOutHead, err := g.outgoingEdges.Add(g.nodes[src.Index()].outgoingHead, h)
	if err != nil {
		return handle.NullEdge, err
	}
	g.nodes[src.Index()].outgoingHead = newOutHead

	newInHead, err := g.incomingEdges.Add(g.nodes[tgt.Index()].incomingHead, h)
	if err != nil {
		return handle.NullEdge, err
	}
	g.nodes[tgt.Index()].incomingHead = newInHead

	key := keyFor(src, tgt)
	g.undirectedIndex[key] = append(g.undirectedIndex[key], h)

	g.orderedEdges = append(g.orderedEdges, h)
	g.bus.Publish(notify.Event{Kind: notify.EdgeAdded, Edge: h})
	return h, nil
}

// RemoveEdge removes h from both endpoints' incidence sets, from the
// undirected-edge index, and from any merge membership.
func (g *MutableGraph) RemoveEdge(h handle.EdgeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.removeEdgeLocked(h)
	})
}

func (g *MutableGraph) removeEdgeLocked(h handle.EdgeHandle) (bool, error) {
	if h.IsNull() {
		return false, ErrNullHandle
	}
	if h.Index() >= len(g.edges) || !g.edges[h.Index()].inUse {
		return false, ErrNotInGraph
	}

	e := g.edges[h.Index()]
	src, tgt := e.source, e.target

	newOutHead, err := g.outgoingEdges.Remove(g.nodes[src.Index()].outgoingHead, h)
	if err != nil {
		return false, err
	}
	g.nodes[src.Index()].outgoingHead = newOutHead

	newInHead, err := g.incomingEdges.Remove(g.nodes[tgt.Index()].incomingHead, h)
	if err != nil {
		return false, err
	}
	g.nodes[tgt.Index()].incomingHead = newInHead

	g.removeFromUndirectedIndex(keyFor(src, tgt), h)

	if head, err := g.mergedEdges.Head(h); err == nil {
		if _, err := g.mergedEdges.Remove(head, h); err != nil && err != dset.ErrNotAMember {
			return false, err
		}
	}

	g.edges[h.Index()] = edge{}
	g.freeEdges = append(g.freeEdges, h)
	g.bus.Publish(notify.Event{Kind: notify.EdgeRemoved, Edge: h})
	return true, nil
}

func (g *MutableGraph) removeFromUndirectedIndex(key undirectedKey, h handle.EdgeHandle) {
	bucket := g.undirectedIndex[key]
	for i, x := range bucket {
		if x == h {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(g.undirectedIndex, key)
	} else {
		g.undirectedIndex[key] = bucket
	}
}

// ContractEdge removes h, reparents every edge incident to the
// higher-numbered endpoint onto the lower-numbered one (silently: no
// per-edge notifications fire for the moves), then merges the two
// endpoints.
func (g *MutableGraph) ContractEdge(h handle.EdgeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.contractEdgeLocked(h)
	})
}

func (g *MutableGraph) contractEdgeLocked(h handle.EdgeHandle) (bool, error) {
	if h.IsNull() {
		return false, ErrNullHandle
	}
	if h.Index() >= len(g.edges) || !g.edges[h.Index()].inUse {
		return false, ErrNotInGraph
	}
	e := g.edges[h.Index()]
	src, tgt := e.source, e.target

	if _, err := g.removeEdgeLocked(h); err != nil {
		return false, err
	}

	if src == tgt {
		return true, nil
	}

	lo, hi := src, tgt
	if tgt < src {
		lo, hi = tgt, src
	}

	if err := g.reparentNodeEdges(hi, lo); err != nil {
		return false, err
	}
	if _, err := g.mergeNodesLocked(lo, hi); err != nil {
		return false, err
	}
	return true, nil
}

// ContractEdges contracts every edge in edges. This is the sequential
// equivalent of contracting the maximal connected components the edge
// set induces: contracting one edge at a time, reparenting as it goes,
// reaches the same surviving min-handle-per-component grouping as a
// batch BFS over the induced subgraph would, because pairwise min-merge
// is associative and reparenting is transitive — so no separate
// component pass is needed here (unlike package component's persistent
// tracker, which must classify splits and merges across an arbitrary
// external change and so cannot use this shortcut).
func (g *MutableGraph) ContractEdges(edges []handle.EdgeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		changed := false
		for _, e := range edges {
			if e.IsNull() || e.Index() >= len(g.edges) || !g.edges[e.Index()].inUse {
				continue
			}
			c, err := g.contractEdgeLocked(e)
			if err != nil {
				return changed, err
			}
			changed = changed || c
		}
		return changed, nil
	})
}

func (g *MutableGraph) reparentNodeEdges(from, to handle.NodeHandle) error {
	outgoing, err := g.outgoingEdges.Members(g.nodes[from.Index()].outgoingHead)
	if err != nil {
		return err
	}
	for _, e := range outgoing {
		if err := g.reparentEdgeEndpoint(e, from, to, true); err != nil {
			return err
		}
	}

	incoming, err := g.incomingEdges.Members(g.nodes[from.Index()].incomingHead)
	if err != nil {
		return err
	}
	for _, e := range incoming {
		if err := g.reparentEdgeEndpoint(e, from, to, false); err != nil {
			return err
		}
	}
	return nil
}

func (g *MutableGraph) reparentEdgeEndpoint(e handle.EdgeHandle, from, to handle.NodeHandle, isSource bool) error {
	old := g.edges[e.Index()]
	oldKey := keyFor(old.source, old.target)

	if isSource {
		newHead, err := g.outgoingEdges.Remove(g.nodes[from.Index()].outgoingHead, e)
		if err != nil {
			return err
		}
		g.nodes[from.Index()].outgoingHead = newHead

		newHead, err = g.outgoingEdges.Add(g.nodes[to.Index()].outgoingHead, e)
		if err != nil {
			return err
		}
		g.nodes[to.Index()].outgoingHead = newHead
		g.edges[e.Index()].source = to
	} else {
		newHead, err := g.incomingEdges.Remove(g.nodes[from.Index()].incomingHead, e)
		if err != nil {
			return err
		}
		g.nodes[from.Index()].incomingHead = newHead

		newHead, err = g.incomingEdges.Add(g.nodes[to.Index()].incomingHead, e)
		if err != nil {
			return err
		}
		g.nodes[to.Index()].incomingHead = newHead
		g.edges[e.Index()].target = to
	}

	g.removeFromUndirectedIndex(oldKey, e)
	newKey := keyFor(g.edges[e.Index()].source, g.edges[e.Index()].target)
	g.undirectedIndex[newKey] = append(g.undirectedIndex[newKey], e)
	return nil
}

// MergeNodes declares a and b equivalent via the node multi-element
// collection; the group's head is min(a, b).
func (g *MutableGraph) MergeNodes(a, b handle.NodeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.mergeNodesLocked(a, b)
	})
}

// MergeNodesList merges every handle in hs into one group.
func (g *MutableGraph) MergeNodesList(hs []handle.NodeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		changed := false
		for i := 1; i < len(hs); i++ {
			c, err := g.mergeNodesLocked(hs[0], hs[i])
			if err != nil {
				return changed, err
			}
			changed = changed || c
		}
		return changed, nil
	})
}

func (g *MutableGraph) mergeNodesLocked(a, b handle.NodeHandle) (bool, error) {
	if a.IsNull() || b.IsNull() {
		return false, ErrNullHandle
	}
	if a.Index() >= len(g.nodes) || !g.nodes[a.Index()].inUse {
		return false, ErrNotInGraph
	}
	if b.Index() >= len(g.nodes) || !g.nodes[b.Index()].inUse {
		return false, ErrNotInGraph
	}
	if a == b {
		return false, nil
	}
	headA, err := g.mergedNodes.Head(a)
	if err != nil {
		return false, err
	}
	headB, err := g.mergedNodes.Head(b)
	if err != nil {
		return false, err
	}
	if headA == headB {
		return false, nil
	}
	if _, err := g.mergedNodes.Add(headA, headB); err != nil {
		return false, err
	}
	return true, nil
}

// MergeEdges is MergeNodes's edge-kind counterpart.
func (g *MutableGraph) MergeEdges(a, b handle.EdgeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.mergeEdgesLocked(a, b)
	})
}

// MergeEdgesList is MergeNodesList's edge-kind counterpart.
func (g *MutableGraph) MergeEdgesList(hs []handle.EdgeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		changed := false
		for i := 1; i < len(hs); i++ {
			c, err := g.mergeEdgesLocked(hs[0], hs[i])
			if err != nil {
				return changed, err
			}
			changed = changed || c
		}
		return changed, nil
	})
}

func (g *MutableGraph) mergeEdgesLocked(a, b handle.EdgeHandle) (bool, error) {
	if a.IsNull() || b.IsNull() {
		return false, ErrNullHandle
	}
	if a.Index() >= len(g.edges) || !g.edges[a.Index()].inUse {
		return false, ErrNotInGraph
	}
	if b.Index() >= len(g.edges) || !g.edges[b.Index()].inUse {
		return false, ErrNotInGraph
	}
	if a == b {
		return false, nil
	}
	headA, err := g.mergedEdges.Head(a)
	if err != nil {
		return false, err
	}
	headB, err := g.mergedEdges.Head(b)
	if err != nil {
		return false, err
	}
	if headA == headB {
		return false, nil
	}
	if _, err := g.mergedEdges.Add(headA, headB); err != nil {
		return false, err
	}
	return true, nil
}

// Update refreshes the cached ordered handle lists and multiplicity
// caches. Idempotent; called automatically at the end of every
// outermost transaction, exposed publicly for callers that want to force
// a refresh mid-transaction.
func (g *MutableGraph) Update() bool {
	var ran bool
	g.withTransaction(func() bool {
		ran = g.update()
		return false
	})
	return ran
}

func (g *MutableGraph) update() bool {
	kept := g.orderedNodes[:0:0]
	for _, h := range g.orderedNodes {
		if h.Index() < len(g.nodes) && g.nodes[h.Index()].inUse {
			kept = append(kept, h)
		}
	}
	g.orderedNodes = kept

	keptE := g.orderedEdges[:0:0]
	for _, h := range g.orderedEdges {
		if h.Index() < len(g.edges) && g.edges[h.Index()].inUse {
			keptE = append(keptE, h)
		}
	}
	g.orderedEdges = keptE

	g.recomputeMultiplicities()
	return true
}

// recomputeMultiplicities implements spec.md §3's multiplicity cache: 1
// for Not, the group's cardinality for Head, 0 for Tail (scenario 3 is
// the authoritative example: a two-node merge leaves the head at
// multiplicity 2 and the tail at 0, not at the group's cardinality).
func (g *MutableGraph) recomputeMultiplicities() {
	for i := range g.nodes {
		if !g.nodes[i].inUse {
			continue
		}
		h := handle.NodeHandle(i)
		switch t, _ := g.mergedNodes.TypeOf(h); t {
		case dset.Not:
			g.nodes[i].multiplicity = 1
		case dset.Tail:
			g.nodes[i].multiplicity = 0
		case dset.Head:
			count, _ := g.mergedNodes.Count(h)
			g.nodes[i].multiplicity = count
		}
	}
	for i := range g.edges {
		if !g.edges[i].inUse {
			continue
		}
		h := handle.EdgeHandle(i)
		switch t, _ := g.mergedEdges.TypeOf(h); t {
		case dset.Not:
			g.edges[i].multiplicity = 1
		case dset.Tail:
			g.edges[i].multiplicity = 0
		case dset.Head:
			count, _ := g.mergedEdges.Count(h)
			g.edges[i].multiplicity = count
		}
	}
}
