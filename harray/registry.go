// Package harray provides dense, handle-indexed parallel storage that
// auto-resizes as its owner's handle space grows.
//
// A HandleArray never outlives the container it is registered with: the
// owner (a MutableGraph for node/edge arrays, a ComponentTracker for
// component arrays) keeps a Registry of every array created against it
// and walks that registry — resizing each array — every time the handle
// space grows, before any new handle is published to the rest of the
// program. Arrays may be created and destroyed from any goroutine, so the
// registry guards its member list with its own mutex, independent of
// whatever locking the owner itself does for mutation (spec.md §4.2).
package harray

import "sync"

// resizable is the registry's view of a HandleArray: just enough surface
// to grow it or sever its back-reference. Implemented by both Array and
// Locking without exporting either method, since only this package's
// Registry ever calls them.
type resizable interface {
	resize(n int)
	invalidateFromOwner()
}

// Registry tracks every HandleArray registered against one owner (a
// MutableGraph's node space, its edge space, or a ComponentTracker's
// component space) and fans resize/invalidate calls out to all of them.
type Registry struct {
	mu      sync.Mutex
	members map[int]resizable
	nextTok int
	size    int
}

// NewRegistry returns an empty registry sized for zero handles.
func NewRegistry() *Registry {
	return &Registry{members: make(map[int]resizable)}
}

// Register adds a to the registry, immediately growing it to the
// registry's current size, and returns a token used to Unregister it
// later. Safe to call from any goroutine.
func (r *Registry) Register(a resizable) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	tok := r.nextTok
	r.nextTok++
	r.members[tok] = a
	a.resize(r.size)

	return tok
}

// Unregister removes the array identified by tok. A no-op if the token
// is unknown (e.g. double-unregister), matching the teacher's own
// idempotent-removal idiom (core.Graph.RemoveVertex tolerates repeats at
// the map level; here we simply no-op rather than erroring, since an
// array being unregistered twice is harmless).
func (r *Registry) Unregister(tok int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, tok)
}

// GrowTo grows every registered array to at least n slots and records n
// as the registry's current size, so that arrays registered afterward
// start pre-sized correctly. The owner must call this BEFORE publishing
// any handle that indexes at or beyond n (spec.md §4.2: "walks the
// registry and resizes each array before publishing any handle that
// indexes into it").
func (r *Registry) GrowTo(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= r.size {
		return
	}
	r.size = n
	for _, a := range r.members {
		a.resize(n)
	}
}

// Size reports the registry's current handle-space size.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// InvalidateAll severs every registered array's back-reference to this
// registry, called once when the owning container is destroyed. Further
// access to any previously-registered array fails with ErrInvalidated.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, a := range r.members {
		a.invalidateFromOwner()
		delete(r.members, tok)
	}
}
