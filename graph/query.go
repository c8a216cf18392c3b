package graph

import (
	"github.com/graphia-go/graphon/dset"
	"github.com/graphia-go/graphon/handle"
)

// ContainsNode reports whether h names a node currently in the graph.
func (g *MutableGraph) ContainsNode(h handle.NodeHandle) bool {
	return !h.IsNull() && h.Index() < len(g.nodes) && g.nodes[h.Index()].inUse
}

// ContainsEdge reports whether h names an edge currently in the graph.
func (g *MutableGraph) ContainsEdge(h handle.EdgeHandle) bool {
	return !h.IsNull() && h.Index() < len(g.edges) && g.edges[h.Index()].inUse
}

// NodeHandles returns every node handle currently in the graph, in
// insertion order as of the last Update() (spec.md §4.9).
func (g *MutableGraph) NodeHandles() []handle.NodeHandle {
	out := make([]handle.NodeHandle, len(g.orderedNodes))
	copy(out, g.orderedNodes)
	return out
}

// EdgeHandles is NodeHandles's edge-kind counterpart.
func (g *MutableGraph) EdgeHandles() []handle.EdgeHandle {
	out := make([]handle.EdgeHandle, len(g.orderedEdges))
	copy(out, g.orderedEdges)
	return out
}

// SourceOf and TargetOf return an edge's endpoints.
func (g *MutableGraph) SourceOf(e handle.EdgeHandle) (handle.NodeHandle, error) {
	if !g.ContainsEdge(e) {
		return handle.NullNode, ErrNotInGraph
	}
	return g.edges[e.Index()].source, nil
}

func (g *MutableGraph) TargetOf(e handle.EdgeHandle) (handle.NodeHandle, error) {
	if !g.ContainsEdge(e) {
		return handle.NullNode, ErrNotInGraph
	}
	return g.edges[e.Index()].target, nil
}

// EdgesBetween returns every edge handle between u and v, regardless of
// direction, in O(1 + k) via the undirected-edge index.
func (g *MutableGraph) EdgesBetween(u, v handle.NodeHandle) []handle.EdgeHandle {
	bucket := g.undirectedIndex[keyFor(u, v)]
	out := make([]handle.EdgeHandle, len(bucket))
	copy(out, bucket)
	return out
}

// FirstEdgeBetween returns one edge handle between u and v, or the null
// handle if none exists.
func (g *MutableGraph) FirstEdgeBetween(u, v handle.NodeHandle) handle.EdgeHandle {
	bucket := g.undirectedIndex[keyFor(u, v)]
	if len(bucket) == 0 {
		return handle.NullEdge
	}
	return bucket[0]
}

// EdgeExistsBetween reports whether any edge connects u and v.
func (g *MutableGraph) EdgeExistsBetween(u, v handle.NodeHandle) bool {
	return len(g.undirectedIndex[keyFor(u, v)]) > 0
}

// EdgesOf returns every edge incident to n, incoming and outgoing
// combined (self-loop edges appear once). Built on dset.Union (spec.md
// §4.3's "all edges incident to a node" adapter) over n's separate
// outgoing and incoming Collections.
func (g *MutableGraph) EdgesOf(n handle.NodeHandle) ([]handle.EdgeHandle, error) {
	if !g.ContainsNode(n) {
		return nil, ErrNotInGraph
	}
	u := dset.NewUnion[handle.Edge]().
		Add(g.outgoingEdges, g.nodes[n.Index()].outgoingHead).
		Add(g.incomingEdges, g.nodes[n.Index()].incomingHead)
	return u.Members()
}

// IncomingEdgesOf returns the edges whose target is n.
func (g *MutableGraph) IncomingEdgesOf(n handle.NodeHandle) ([]handle.EdgeHandle, error) {
	if !g.ContainsNode(n) {
		return nil, ErrNotInGraph
	}
	return g.incomingEdges.Members(g.nodes[n.Index()].incomingHead)
}

// OutgoingEdgesOf returns the edges whose source is n.
func (g *MutableGraph) OutgoingEdgesOf(n handle.NodeHandle) ([]handle.EdgeHandle, error) {
	if !g.ContainsNode(n) {
		return nil, ErrNotInGraph
	}
	return g.outgoingEdges.Members(g.nodes[n.Index()].outgoingHead)
}

// SourcesOf returns the distinct nodes with an outgoing edge into n.
func (g *MutableGraph) SourcesOf(n handle.NodeHandle) ([]handle.NodeHandle, error) {
	in, err := g.IncomingEdgesOf(n)
	if err != nil {
		return nil, err
	}
	seen := make(map[handle.NodeHandle]bool, len(in))
	var out []handle.NodeHandle
	for _, e := range in {
		src := g.edges[e.Index()].source
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out, nil
}

// TargetsOf returns the distinct nodes n has an outgoing edge into.
func (g *MutableGraph) TargetsOf(n handle.NodeHandle) ([]handle.NodeHandle, error) {
	out, err := g.OutgoingEdgesOf(n)
	if err != nil {
		return nil, err
	}
	seen := make(map[handle.NodeHandle]bool, len(out))
	var result []handle.NodeHandle
	for _, e := range out {
		tgt := g.edges[e.Index()].target
		if !seen[tgt] {
			seen[tgt] = true
			result = append(result, tgt)
		}
	}
	return result, nil
}

// NeighboursOf returns the distinct nodes adjacent to n via any incident
// edge, direction-agnostic.
func (g *MutableGraph) NeighboursOf(n handle.NodeHandle) ([]handle.NodeHandle, error) {
	edges, err := g.EdgesOf(n)
	if err != nil {
		return nil, err
	}
	seen := map[handle.NodeHandle]bool{n: true}
	var out []handle.NodeHandle
	for _, e := range edges {
		ed := g.edges[e.Index()]
		for _, other := range [...]handle.NodeHandle{ed.source, ed.target} {
			if !seen[other] {
				seen[other] = true
				out = append(out, other)
			}
		}
	}
	return out, nil
}

// MergedNodesOf returns every node in h's multi-element group, head
// first, or just h itself if it is Not grouped.
func (g *MutableGraph) MergedNodesOf(h handle.NodeHandle) ([]handle.NodeHandle, error) {
	head, err := g.mergedNodes.Head(h)
	if err != nil {
		return nil, err
	}
	return g.mergedNodes.Members(head)
}

// MergedEdgesOf is MergedNodesOf's edge-kind counterpart.
func (g *MutableGraph) MergedEdgesOf(h handle.EdgeHandle) ([]handle.EdgeHandle, error) {
	head, err := g.mergedEdges.Head(h)
	if err != nil {
		return nil, err
	}
	return g.mergedEdges.Members(head)
}

// MultiplicityOfNode returns the cached multiplicity for a node handle
// (spec.md §3).
func (g *MutableGraph) MultiplicityOfNode(h handle.NodeHandle) (int, error) {
	if !g.ContainsNode(h) {
		return 0, ErrNotInGraph
	}
	return g.nodes[h.Index()].multiplicity, nil
}

// MultiplicityOfEdge is MultiplicityOfNode's edge-kind counterpart.
func (g *MutableGraph) MultiplicityOfEdge(h handle.EdgeHandle) (int, error) {
	if !g.ContainsEdge(h) {
		return 0, ErrNotInGraph
	}
	return g.edges[h.Index()].multiplicity, nil
}

// NodeType reports h's multi-element classification (spec.md §6:
// typeOf(handle)).
func (g *MutableGraph) NodeType(h handle.NodeHandle) GroupType {
	t, _ := g.mergedNodes.TypeOf(h)
	return t
}

// EdgeType is NodeType's edge-kind counterpart.
func (g *MutableGraph) EdgeType(h handle.EdgeHandle) GroupType {
	t, _ := g.mergedEdges.TypeOf(h)
	return t
}
