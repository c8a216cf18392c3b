package component

import "github.com/graphia-go/graphon/handle"

// ComponentHandles returns every component handle, sorted by (size
// descending, id ascending) per spec.md §3.
func (t *Tracker) ComponentHandles() []handle.ComponentHandle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]handle.ComponentHandle, len(t.order))
	copy(out, t.order)
	return out
}

// NumComponents reports the current component count.
func (t *Tracker) NumComponents() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// ContainsComponent reports whether h names a currently tracked
// component.
func (t *Tracker) ContainsComponent(h handle.ComponentHandle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.idSet[h]
}

// ComponentByID returns the GraphComponent view for h, or (nil, false) if
// h does not name a currently tracked component.
func (t *Tracker) ComponentByID(h handle.ComponentHandle) (*GraphComponent, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.components[h]
	return c, ok
}

// ComponentOfNode returns the component handle n currently belongs to, or
// the null handle if n is filtered out or not in the graph.
func (t *Tracker) ComponentOfNode(n handle.NodeHandle) handle.ComponentHandle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, err := t.nodeComponent.Get(n)
	if err != nil {
		return handle.NullComponent
	}
	if !t.idSet[id] {
		return handle.NullComponent
	}
	return id
}

// ComponentOfEdge is ComponentOfNode's edge-kind counterpart.
func (t *Tracker) ComponentOfEdge(e handle.EdgeHandle) handle.ComponentHandle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, err := t.edgeComponent.Get(e)
	if err != nil {
		return handle.NullComponent
	}
	if !t.idSet[id] {
		return handle.NullComponent
	}
	return id
}

// LargestComponent returns the component with the most nodes (the first
// entry of the size-sorted order), or (nil, false) if there are none.
func (t *Tracker) LargestComponent() (*GraphComponent, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.order) == 0 {
		return nil, false
	}
	return t.components[t.order[0]], true
}
