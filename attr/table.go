package attr

import (
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/harray"
	"github.com/graphia-go/graphon/notify"
)

// Table is generic parallel storage keyed by node or edge handles, built
// directly on harray.Locking so it stays safe to read from a thread other
// than the graph's mutator thread. A Table is driven entirely by the
// bridge's notifications: it assigns a fresh default value to a handle as
// soon as it's added and clears the slot back to V's zero value once the
// handle is removed, so a caller never observes stale data from a
// previous occupant of a recycled handle.
type Table[K any, V any] struct {
	arr     *harray.Locking[K, V]
	zero    func() V
	sub     notify.Subscription
	bus     *notify.Bus
}

// NewNodeTable creates a Table over node handles. zero, if non-nil, is
// called to produce the value assigned to a freshly added node; if nil,
// V's Go zero value is used.
func NewNodeTable[V any](b Bridge, zero func() V) *Table[handle.Node, V] {
	t := &Table[handle.Node, V]{
		arr:  harray.NewLocking[handle.Node, V](b.NodeRegistry()),
		zero: zero,
		bus:  b.Bus(),
	}
	for _, n := range b.NodeHandles() {
		_ = t.arr.Set(n, t.defaultValue())
	}
	t.sub = t.bus.Subscribe(func(ev notify.Event) {
		switch ev.Kind {
		case notify.NodeAdded:
			_ = t.arr.Set(ev.Node, t.defaultValue())
		case notify.NodeRemoved:
			var v V
			_ = t.arr.Set(ev.Node, v)
		}
	})
	return t
}

// NewEdgeTable is NewNodeTable's edge-kind counterpart.
func NewEdgeTable[V any](b Bridge, zero func() V) *Table[handle.Edge, V] {
	t := &Table[handle.Edge, V]{
		arr:  harray.NewLocking[handle.Edge, V](b.EdgeRegistry()),
		zero: zero,
		bus:  b.Bus(),
	}
	for _, e := range b.EdgeHandles() {
		_ = t.arr.Set(e, t.defaultValue())
	}
	t.sub = t.bus.Subscribe(func(ev notify.Event) {
		switch ev.Kind {
		case notify.EdgeAdded:
			_ = t.arr.Set(ev.Edge, t.defaultValue())
		case notify.EdgeRemoved:
			var v V
			_ = t.arr.Set(ev.Edge, v)
		}
	})
	return t
}

func (t *Table[K, V]) defaultValue() V {
	if t.zero != nil {
		return t.zero()
	}
	var v V
	return v
}

// Get returns the value stored at h.
func (t *Table[K, V]) Get(h handle.ID[K]) (V, error) {
	return t.arr.Get(h)
}

// Set overwrites the value stored at h.
func (t *Table[K, V]) Set(h handle.ID[K], v V) error {
	return t.arr.Set(h, v)
}

// Len reports the table's current backing size.
func (t *Table[K, V]) Len() int {
	return t.arr.Len()
}

// Close unsubscribes the table from the bridge's bus and invalidates its
// backing array. Further Get/Set calls fail with harray.ErrInvalidated.
func (t *Table[K, V]) Close() {
	t.bus.Unsubscribe(t.sub)
	t.arr.Invalidate()
}
