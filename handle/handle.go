// Package handle defines the compact, nullable integer identities used
// throughout graphon to name graph elements.
//
// A handle is a thin wrapper around a signed integer: -1 is the reserved
// null sentinel, every other non-negative value names a slot in some
// dense, handle-indexed storage (see package harray). Node, edge and
// component handles are modeled as distinct instantiations of the same
// generic ID type so that, say, a NodeHandle can never be passed where an
// EdgeHandle is expected, without three hand-written near-identical types.
package handle

import "fmt"

// Node, Edge and Component are phantom type parameters: they carry no
// data and are never instantiated, they exist purely to make ID[Node]
// and ID[Edge] distinct, non-interchangeable Go types.
type (
	Node      struct{}
	Edge      struct{}
	Component struct{}
)

// ID is a compact, copyable, trivially-comparable identity for an
// element of kind K. The zero value is 0, a valid handle; use Null[K]()
// (or one of NullNode/NullEdge/NullComponent) to obtain the sentinel.
type ID[K any] int32

// Null is the reserved "no handle" sentinel, shared by every kind.
const Null = -1

// NodeHandle, EdgeHandle and ComponentHandle are the three disjoint
// handle types named throughout the rest of graphon.
type (
	NodeHandle      = ID[Node]
	EdgeHandle      = ID[Edge]
	ComponentHandle = ID[Component]
)

// Reserved null handles, one per kind, for convenient zero-allocation use
// at call sites (graph.NoSuchNode(), empty component lookups, ...).
const (
	NullNode      NodeHandle      = Null
	NullEdge      EdgeHandle      = Null
	NullComponent ComponentHandle = Null
)

// IsNull reports whether h is the reserved sentinel.
func (h ID[K]) IsNull() bool { return h < 0 }

// Index converts a non-null handle to a zero-based slice index. Calling
// Index on a null handle is a caller error; it returns -1, which will
// panic on any subsequent slice access rather than silently aliasing
// index 0.
func (h ID[K]) Index() int {
	if h.IsNull() {
		return -1
	}
	return int(h)
}

// Next returns the handle immediately following h, used by allocators
// that draw from a monotonic counter rather than a free list.
func (h ID[K]) Next() ID[K] { return h + 1 }

// Less orders handles numerically; null sorts before every non-null
// handle, matching the "ascending handle" tie-break spec.md describes
// for component ordering and free-list behavior.
func (h ID[K]) Less(other ID[K]) bool { return h < other }

// String renders the handle for diagnostics and test failure output.
func (h ID[K]) String() string {
	if h.IsNull() {
		return "<null>"
	}
	return fmt.Sprintf("#%d", int32(h))
}

// Min returns the numerically smaller of a and b; ties return a. Used to
// pick the stable "head" of a merged multi-element group (spec.md §3:
// "the head is the numerically smallest handle in the group").
func Min[K any](a, b ID[K]) ID[K] {
	if b < a {
		return b
	}
	return a
}

// Max returns the numerically larger of a and b; ties return a.
func Max[K any](a, b ID[K]) ID[K] {
	if b > a {
		return b
	}
	return a
}
