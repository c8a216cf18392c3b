package graph

import "github.com/graphia-go/graphon/handle"

// growNodes extends node storage (and every registered external node
// array) to cover at least n slots. Growth only ever appends; node
// storage never shrinks.
func (g *MutableGraph) growNodes(n int) {
	if n <= len(g.nodes) {
		return
	}
	grown := make([]node, n)
	copy(grown, g.nodes)
	g.nodes = grown
	g.nodeReg.GrowTo(n)
}

func (g *MutableGraph) growEdges(n int) {
	if n <= len(g.edges) {
		return
	}
	grown := make([]edge, n)
	copy(grown, g.edges)
	g.edges = grown
	g.edgeReg.GrowTo(n)
}

// allocNode draws from the free list if non-empty, otherwise allocates
// from the monotonic counter, growing storage as needed.
func (g *MutableGraph) allocNode() handle.NodeHandle {
	if len(g.freeNodes) > 0 {
		h := g.freeNodes[0]
		g.freeNodes = g.freeNodes[1:]
		return h
	}
	h := g.nextNode
	g.nextNode = g.nextNode.Next()
	g.growNodes(h.Index() + 1)
	return h
}

func (g *MutableGraph) allocEdge() handle.EdgeHandle {
	if len(g.freeEdges) > 0 {
		h := g.freeEdges[0]
		g.freeEdges = g.freeEdges[1:]
		return h
	}
	h := g.nextEdge
	g.nextEdge = g.nextEdge.Next()
	g.growEdges(h.Index() + 1)
	return h
}

// ReserveNodeHandle grows the node handle space to cover h, if
// necessary, pushing every skipped intermediate handle into the free
// list so that future allocations can still reclaim them.
func (g *MutableGraph) ReserveNodeHandle(h handle.NodeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.reserveNodeHandleLocked(h)
	})
}

func (g *MutableGraph) reserveNodeHandleLocked(h handle.NodeHandle) (bool, error) {
	if h.IsNull() {
		return false, ErrNullHandle
	}
	if h.Index() < len(g.nodes) && g.nodes[h.Index()].inUse {
		return false, ErrDuplicateHandle
	}
	if h.Index() < g.nextNode.Index() {
		// Already within the allocated range and not in use: must be on
		// the free list already (a no-op reservation).
		return false, nil
	}
	for cur := g.nextNode; cur.Index() < h.Index(); cur = cur.Next() {
		g.freeNodes = append(g.freeNodes, cur)
	}
	g.nextNode = h.Next()
	g.growNodes(h.Index() + 1)
	return false, nil
}

// ReserveEdgeHandle is the edge-kind symmetric counterpart of
// ReserveNodeHandle.
func (g *MutableGraph) ReserveEdgeHandle(h handle.EdgeHandle) error {
	return g.withTransactionErr(func() (bool, error) {
		return g.reserveEdgeHandleLocked(h)
	})
}

func (g *MutableGraph) reserveEdgeHandleLocked(h handle.EdgeHandle) (bool, error) {
	if h.IsNull() {
		return false, ErrNullHandle
	}
	if h.Index() < len(g.edges) && g.edges[h.Index()].inUse {
		return false, ErrDuplicateHandle
	}
	if h.Index() < g.nextEdge.Index() {
		return false, nil
	}
	for cur := g.nextEdge; cur.Index() < h.Index(); cur = cur.Next() {
		g.freeEdges = append(g.freeEdges, cur)
	}
	g.nextEdge = h.Next()
	g.growEdges(h.Index() + 1)
	return false, nil
}

// withTransactionErr is withTransaction's error-returning counterpart,
// used by mutation methods that can fail with a structural rejection
// (spec.md §7) rather than only a bool.
func (g *MutableGraph) withTransactionErr(fn func() (bool, error)) error {
	tg := g.BeginTransaction()
	changed, err := fn()
	tg.EndTransaction(changed)
	return err
}

// NextNodeHandle returns the handle that the next free-list-less
// allocation would draw, for diagnostics and the property-based tests in
// spec.md §8 item 6.
func (g *MutableGraph) NextNodeHandle() handle.NodeHandle { return g.nextNode }

// NextEdgeHandle is NextNodeHandle's edge-kind counterpart.
func (g *MutableGraph) NextEdgeHandle() handle.EdgeHandle { return g.nextEdge }
