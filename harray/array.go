package harray

import "github.com/graphia-go/graphon/handle"

// Array is dense parallel storage of V indexed by handle.ID[K]. It is not
// internally synchronized: callers that mutate a graph already hold the
// owner's writer lock while they touch its registered arrays, and
// read-only consumers on the same thread coordinate externally (spec.md
// §5: "Readers of non-locking HandleArrays must coordinate externally").
// Use Locking for an array that must be safe to read from a different
// goroutine than the one performing mutation.
type Array[K any, V any] struct {
	reg  *Registry
	tok  int
	data []V
	dead bool
}

// NewArray creates an Array registered against reg. Every slot up to
// reg's current size is default-initialized.
func NewArray[K any, V any](reg *Registry) *Array[K, V] {
	a := newUnregisteredArray[K, V]()
	a.reg = reg
	a.tok = reg.Register(a)
	return a
}

// newUnregisteredArray builds a bare Array without registering it. Used
// by Locking, which must register *itself* (not its inner Array) so that
// the registry's resize fan-out goes through Locking's mutex.
func newUnregisteredArray[K any, V any]() *Array[K, V] {
	return &Array[K, V]{}
}

// Get returns the value stored at h.
func (a *Array[K, V]) Get(h handle.ID[K]) (V, error) {
	var zero V
	if a.dead {
		return zero, ErrInvalidated
	}
	i := h.Index()
	if i < 0 || i >= len(a.data) {
		return zero, ErrOutOfRange
	}
	return a.data[i], nil
}

// Set stores v at h.
func (a *Array[K, V]) Set(h handle.ID[K], v V) error {
	if a.dead {
		return ErrInvalidated
	}
	i := h.Index()
	if i < 0 || i >= len(a.data) {
		return ErrOutOfRange
	}
	a.data[i] = v
	return nil
}

// Len reports the array's current size.
func (a *Array[K, V]) Len() int { return len(a.data) }

// ResetAll reinitializes every slot to the zero value of V.
func (a *Array[K, V]) ResetAll() error {
	if a.dead {
		return ErrInvalidated
	}
	var zero V
	for i := range a.data {
		a.data[i] = zero
	}
	return nil
}

// Invalidate unregisters a from its owning registry and severs its
// back-pointer; subsequent access fails with ErrInvalidated. Call this
// when an array is no longer needed, independent of the owner's own
// lifetime (owner death invalidates via invalidateFromOwner instead).
func (a *Array[K, V]) Invalidate() {
	if a.dead {
		return
	}
	a.reg.Unregister(a.tok)
	a.dead = true
	a.data = nil
}

// resize implements resizable. Growing only ever appends zero-valued
// slots; arrays never shrink (handles are never reused while the owning
// graph is alive, per spec.md §3, so existing slots must stay addressable).
func (a *Array[K, V]) resize(n int) {
	if a.dead || n <= len(a.data) {
		return
	}
	grown := make([]V, n)
	copy(grown, a.data)
	a.data = grown
}

// invalidateFromOwner implements resizable; called by Registry.InvalidateAll.
func (a *Array[K, V]) invalidateFromOwner() {
	a.dead = true
	a.data = nil
}
