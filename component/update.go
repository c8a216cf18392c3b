package component

import (
	"sort"

	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/notify"
)

// Update runs one full recomputation pass. It is called automatically on
// every graphChanged(true) from the tracked graph's bus, and is exposed
// publicly so a caller (or test) can force a synchronous recompute.
func (t *Tracker) Update() {
	t.mu.Lock()

	t.syncSlotSize()

	newNodeComponent := make(map[handle.NodeHandle]handle.ComponentHandle)
	newEdgeComponent := make(map[handle.EdgeHandle]handle.ComponentHandle)

	componentIDs := make(map[handle.ComponentHandle]bool)
	splitComponents := make(map[handle.ComponentHandle]map[handle.ComponentHandle]bool)
	splitComponentIDs := make(map[handle.ComponentHandle]bool)
	mergedComponents := make(map[handle.ComponentHandle]map[handle.ComponentHandle]bool)
	mergedComponentIDs := make(map[handle.ComponentHandle]bool)
	updatesRequired := make(map[handle.ComponentHandle]bool)

	nodeHandles := t.g.NodeHandles()
	edgeHandles := t.g.EdgeHandles()

	oldOf := func(h handle.NodeHandle) handle.ComponentHandle {
		v, _ := t.nodeComponent.Get(h)
		return v
	}

	// Pass 1: claim or split.
	for _, n := range nodeHandles {
		if t.nodeFiltered(n) {
			continue
		}
		if _, already := newNodeComponent[n]; already {
			continue
		}
		oldID := oldOf(n)
		if oldID.IsNull() {
			continue
		}

		if componentIDs[oldID] {
			newID := t.generateComponentID()
			componentIDs[newID] = true
			t.assignConnected(n, newID, newNodeComponent, newEdgeComponent)
			updatesRequired[oldID] = true
			updatesRequired[newID] = true

			if splitComponents[oldID] == nil {
				splitComponents[oldID] = make(map[handle.ComponentHandle]bool)
			}
			splitComponents[oldID][oldID] = true
			splitComponents[oldID][newID] = true
			splitComponentIDs[newID] = true
		} else {
			componentIDs[oldID] = true
			affected := t.assignConnected(n, oldID, newNodeComponent, newEdgeComponent)
			updatesRequired[oldID] = true

			if len(affected) > 1 {
				if mergedComponents[oldID] == nil {
					mergedComponents[oldID] = make(map[handle.ComponentHandle]bool)
				}
				for id := range affected {
					mergedComponents[oldID][id] = true
					if id != oldID {
						mergedComponentIDs[id] = true
					}
				}
			}
		}
	}

	// Pass 2: pure additions.
	for _, n := range nodeHandles {
		if t.nodeFiltered(n) {
			continue
		}
		if _, already := newNodeComponent[n]; already {
			continue
		}
		if !oldOf(n).IsNull() {
			continue
		}
		newID := t.generateComponentID()
		componentIDs[newID] = true
		t.assignConnected(n, newID, newNodeComponent, newEdgeComponent)
		updatesRequired[newID] = true
	}

	toBeAdded := make(map[handle.ComponentHandle]bool)
	toBeRemoved := make(map[handle.ComponentHandle]bool)
	for id := range componentIDs {
		if !t.idSet[id] {
			toBeAdded[id] = true
		}
	}
	for id := range t.idSet {
		if !componentIDs[id] {
			toBeRemoved[id] = true
		}
	}

	nodeAdds := make(map[handle.NodeHandle]handle.ComponentHandle)
	edgeAdds := make(map[handle.EdgeHandle]handle.ComponentHandle)
	nodeRemoves := make(map[handle.NodeHandle]handle.ComponentHandle)
	edgeRemoves := make(map[handle.EdgeHandle]handle.ComponentHandle)
	nodeMoves := make(map[handle.NodeHandle][2]handle.ComponentHandle)
	edgeMoves := make(map[handle.EdgeHandle][2]handle.ComponentHandle)

	maxNode := t.nodeComponent.Len()
	for i := 0; i < maxNode; i++ {
		n := handle.NodeHandle(i)
		oldID := oldOf(n)
		newID, isNew := newNodeComponent[n]
		if !isNew {
			newID = handle.NullComponent
		}
		if oldID == newID {
			continue
		}
		switch {
		case oldID.IsNull() && !newID.IsNull():
			nodeAdds[n] = newID
		case !oldID.IsNull() && newID.IsNull():
			nodeRemoves[n] = oldID
		case !oldID.IsNull() && !newID.IsNull():
			if !toBeRemoved[oldID] && !toBeAdded[newID] {
				nodeMoves[n] = [2]handle.ComponentHandle{oldID, newID}
			} else if toBeRemoved[oldID] && toBeAdded[newID] {
				nodeAdds[n] = newID
			}
		}
	}

	maxEdge := t.edgeComponent.Len()
	for i := 0; i < maxEdge; i++ {
		e := handle.EdgeHandle(i)
		oldV, _ := t.edgeComponent.Get(e)
		oldID := oldV
		newID, isNew := newEdgeComponent[e]
		if !isNew {
			newID = handle.NullComponent
		}
		if oldID == newID {
			continue
		}
		switch {
		case oldID.IsNull() && !newID.IsNull():
			edgeAdds[e] = newID
		case !oldID.IsNull() && newID.IsNull():
			edgeRemoves[e] = oldID
		case !oldID.IsNull() && !newID.IsNull():
			if !toBeRemoved[oldID] && !toBeAdded[newID] {
				edgeMoves[e] = [2]handle.ComponentHandle{oldID, newID}
			} else if toBeRemoved[oldID] && toBeAdded[newID] {
				edgeAdds[e] = newID
			}
		}
	}

	// Resolve false merges: a mergee only really merged if it is actually
	// disappearing.
	for merger, mergees := range mergedComponents {
		for id := range mergees {
			if id != merger && !toBeRemoved[id] {
				delete(mergees, id)
			}
		}
		if len(mergees) <= 1 {
			delete(mergedComponents, merger)
		}
	}
	for id := range mergedComponentIDs {
		if !toBeRemoved[id] {
			delete(mergedComponentIDs, id)
		}
	}

	// Removed components.
	removedOrder := sortedComponentHandles(toBeRemoved)
	for _, id := range removedOrder {
		hasMerged := mergedComponentIDs[id]
		if !hasMerged {
			for n, c := range nodeRemoves {
				if c == id {
					delete(nodeRemoves, n)
				}
			}
			for e, c := range edgeRemoves {
				if c == id {
					delete(edgeRemoves, e)
				}
			}
		}
		delete(t.idSet, id)
		delete(t.components, id)
		delete(updatesRequired, id)
		t.reuseQueue = append(t.reuseQueue, id)
	}

	for id := range toBeAdded {
		t.idSet[id] = true
		if t.components[id] == nil {
			t.components[id] = &GraphComponent{ID: id}
		}
	}

	// Rebuild touched components from scratch.
	for id := range updatesRequired {
		if c := t.components[id]; c != nil {
			c.Nodes = c.Nodes[:0]
			c.Edges = c.Edges[:0]
		}
	}
	for _, n := range nodeHandles {
		if t.nodeFiltered(n) {
			continue
		}
		id, ok := newNodeComponent[n]
		if !ok || !updatesRequired[id] {
			continue
		}
		t.components[id].Nodes = append(t.components[id].Nodes, n)
	}
	for _, e := range edgeHandles {
		if t.edgeFiltered(e) {
			continue
		}
		id, ok := newEdgeComponent[e]
		if !ok || !updatesRequired[id] {
			continue
		}
		t.components[id].Edges = append(t.components[id].Edges, e)
	}

	// Commit the new assignment. This walks every slot, not just the
	// currently-live handles, so a removed (or otherwise non-current)
	// handle's slot is reset to null rather than left holding a stale
	// component id - mirroring the original's wholesale
	// _nodesComponentId = std::move(newNodesComponentId) move-assign.
	for i := 0; i < maxNode; i++ {
		n := handle.NodeHandle(i)
		id, ok := newNodeComponent[n]
		if !ok {
			id = handle.NullComponent
		}
		_ = t.nodeComponent.Set(n, id)
	}
	for i := 0; i < maxEdge; i++ {
		e := handle.EdgeHandle(i)
		id, ok := newEdgeComponent[e]
		if !ok {
			id = handle.NullComponent
		}
		_ = t.edgeComponent.Set(e, id)
	}

	t.order = t.order[:0]
	for id := range t.idSet {
		t.order = append(t.order, id)
	}
	sort.Slice(t.order, func(i, j int) bool {
		a, b := t.order[i], t.order[j]
		na, nb := t.components[a].NumNodes(), t.components[b].NumNodes()
		if na == nb {
			return a < b
		}
		return na > nb
	})

	report := UpdateReport{
		Added:       sortedComponentHandles(toBeAdded),
		Removed:     removedOrder,
		Split:       setMapToSlices(splitComponents, true),
		Merged:      setMapToSlices(mergedComponents, false),
		NodeAdds:    nodeAdds,
		EdgeAdds:    edgeAdds,
		NodeRemoves: nodeRemoves,
		EdgeRemoves: edgeRemoves,
	}
	for n, pair := range nodeMoves {
		report.NodeMoves = append(report.NodeMoves, notify.ElementMoveEvent[handle.Node]{Element: n, From: pair[0], To: pair[1]})
	}
	for e, pair := range edgeMoves {
		report.EdgeMoves = append(report.EdgeMoves, notify.ElementMoveEvent[handle.Edge]{Element: e, From: pair[0], To: pair[1]})
	}
	t.lastReport = report

	t.mu.Unlock()

	t.emit(report)
}

// emit fires notifications in the exact order spec.md §4.7 specifies,
// after the update lock has already been released (spec.md §4.6 step 6
// / §9 Open Question 2: readers may requery mid-emission).
func (t *Tracker) emit(r UpdateReport) {
	bus := t.g.Bus()

	for merger, mergees := range r.Merged {
		merging := make([]handle.ComponentHandle, len(mergees))
		copy(merging, mergees)
		sort.Slice(merging, func(i, j int) bool { return merging[i] < merging[j] })
		bus.Publish(notify.Event{
			Kind:  notify.ComponentsWillMerge,
			Merge: &notify.ComponentMergeEvent{Merging: merging, Survivor: merger},
		})
	}

	for _, id := range r.Removed {
		bus.Publish(notify.Event{Kind: notify.ComponentWillBeRemoved, Component: id})
	}

	for _, id := range r.Added {
		bus.Publish(notify.Event{Kind: notify.ComponentAdded, Component: id})
	}

	for before, after := range r.Split {
		bus.Publish(notify.Event{
			Kind:  notify.ComponentSplit,
			Split: &notify.ComponentSplitEvent{Before: before, After: after},
		})
	}

	for n, c := range r.NodeAdds {
		bus.Publish(notify.Event{Kind: notify.NodeAddedToComponent, Node: n, Component: c})
	}
	for e, c := range r.EdgeAdds {
		bus.Publish(notify.Event{Kind: notify.EdgeAddedToComponent, Edge: e, Component: c})
	}
	for n, c := range r.NodeRemoves {
		bus.Publish(notify.Event{Kind: notify.NodeRemovedFromComponent, Node: n, Component: c})
	}
	for e, c := range r.EdgeRemoves {
		bus.Publish(notify.Event{Kind: notify.EdgeRemovedFromComponent, Edge: e, Component: c})
	}
	for _, m := range r.NodeMoves {
		bus.Publish(notify.Event{
			Kind:     notify.NodeMovedBetweenComponents,
			Node:     m.Element,
			NodeMove: &m,
		})
	}
	for _, m := range r.EdgeMoves {
		bus.Publish(notify.Event{
			Kind:     notify.EdgeMovedBetweenComponents,
			Edge:     m.Element,
			EdgeMove: &m,
		})
	}
}

// assignConnected runs the BFS traversal contract spec.md §4.6 describes:
// incoming+outgoing incidence treated as one undirected neighbour set,
// every merged sibling of a visited node or edge marked with the same
// component. Returns the set of distinct pre-update component handles
// the walk touched (excluding null), used by the caller to detect merges.
func (t *Tracker) assignConnected(
	root handle.NodeHandle, id handle.ComponentHandle,
	newNodeComponent map[handle.NodeHandle]handle.ComponentHandle,
	newEdgeComponent map[handle.EdgeHandle]handle.ComponentHandle,
) map[handle.ComponentHandle]bool {
	affected := make(map[handle.ComponentHandle]bool)
	queue := []handle.NodeHandle{root}

	// The ported C++ algorithm broadcasts a component id to every merged
	// sibling unconditionally, filtered or not. That makes a Tail sibling
	// carry the same component id as its Head, which the filtered query
	// accessors never re-check against the node/edge filter either -
	// meaning a filtered-out Tail would still answer a componentOf query.
	// Scenario 6 is explicit that a filtered Tail must stay outside every
	// component, so sibling marking here skips filtered nodes and edges;
	// only the head (or whichever sibling passes the filter) carries the
	// id.
	markNode := func(n handle.NodeHandle) {
		if t.nodeFiltered(n) {
			return
		}
		old, _ := t.nodeComponent.Get(n)
		if !old.IsNull() {
			affected[old] = true
		}
		newNodeComponent[n] = id
	}
	markEdge := func(e handle.EdgeHandle) {
		if t.edgeFiltered(e) {
			return
		}
		newEdgeComponent[e] = id
	}

	visitedNodes := make(map[handle.NodeHandle]bool)

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visitedNodes[n] {
			continue
		}
		visitedNodes[n] = true

		markNode(n)
		if siblings, err := t.g.MergedNodesOf(n); err == nil {
			for _, s := range siblings {
				markNode(s)
			}
		}

		edges, err := t.g.EdgesOf(n)
		if err != nil {
			continue
		}
		for _, e := range edges {
			if t.edgeFiltered(e) {
				continue
			}
			markEdge(e)
			if siblings, err := t.g.MergedEdgesOf(e); err == nil {
				for _, s := range siblings {
					markEdge(s)
				}
			}

			src, errS := t.g.SourceOf(e)
			tgt, errT := t.g.TargetOf(e)
			if errS != nil || errT != nil {
				continue
			}
			var opposite handle.NodeHandle
			if src == n {
				opposite = tgt
			} else {
				opposite = src
			}
			if opposite == n {
				// Self-loop: nothing further to traverse through it.
				continue
			}
			if _, already := newNodeComponent[opposite]; !already && !visitedNodes[opposite] {
				queue = append(queue, opposite)
			}
		}
	}

	return affected
}

func sortedComponentHandles(set map[handle.ComponentHandle]bool) []handle.ComponentHandle {
	out := make([]handle.ComponentHandle, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// setMapToSlices flattens a key -> set-of-handles map into a key ->
// sorted-slice map. keepSelf controls whether the key's own handle is
// kept in its slice: Split's "after" set includes the original handle
// per spec.md §4.6 ("split(oldId → {oldId, newId})"); Merged's list
// excludes the survivor, since a "what got folded in" list logically
// shouldn't name itself.
func setMapToSlices(m map[handle.ComponentHandle]map[handle.ComponentHandle]bool, keepSelf bool) map[handle.ComponentHandle][]handle.ComponentHandle {
	out := make(map[handle.ComponentHandle][]handle.ComponentHandle, len(m))
	for k, set := range m {
		var ids []handle.ComponentHandle
		for id := range set {
			if keepSelf || id != k {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out[k] = ids
	}
	return out
}
