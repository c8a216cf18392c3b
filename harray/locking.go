package harray

import (
	"sync"

	"github.com/graphia-go/graphon/handle"
)

// Locking wraps an Array with its own sync.RWMutex so that a consumer
// living on a different goroutine than the graph's mutator thread can
// read and write it safely (spec.md §5: "the locking HandleArray variant
// exists for this purpose"). The attribute layer (package attr) is the
// canonical such consumer: it is driven by graph notifications on the
// mutator thread but may be queried from the UI/render thread at any time.
type Locking[K any, V any] struct {
	mu  sync.RWMutex
	reg *Registry
	tok int
	arr *Array[K, V]
}

// NewLocking creates a Locking array registered against reg. Locking
// registers itself (rather than its inner Array) so that the registry's
// resize fan-out is always taken under l.mu.
func NewLocking[K any, V any](reg *Registry) *Locking[K, V] {
	l := &Locking[K, V]{reg: reg, arr: newUnregisteredArray[K, V]()}
	l.tok = reg.Register(l)
	return l
}

// Get returns the value stored at h under a read lock.
func (l *Locking[K, V]) Get(h handle.ID[K]) (V, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.arr.Get(h)
}

// Set stores v at h under a write lock.
func (l *Locking[K, V]) Set(h handle.ID[K], v V) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.arr.Set(h, v)
}

// Len reports the array's current size under a read lock.
func (l *Locking[K, V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.arr.Len()
}

// ResetAll reinitializes every slot to the zero value of V under a write lock.
func (l *Locking[K, V]) ResetAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.arr.ResetAll()
}

// Invalidate unregisters l from its owning registry and severs its
// back-pointer; subsequent access fails with ErrInvalidated.
func (l *Locking[K, V]) Invalidate() {
	l.reg.Unregister(l.tok)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.arr.invalidateFromOwner()
}

func (l *Locking[K, V]) resize(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.arr.resize(n)
}

func (l *Locking[K, V]) invalidateFromOwner() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.arr.invalidateFromOwner()
}
