// Package dset implements DistinctSetCollection (spec.md §4.3): an
// intrusive, handle-indexed disjoint-set structure over a handle space.
// Each maintained set is a doubly-linked list whose distinguished head
// also names the set; membership, insertion and removal are all O(1).
//
// graphon uses one Collection per node (outgoing edges), one per node
// (incoming edges), and one each for node- and edge-level multi-element
// grouping — see package graph.
//
// Storage is three harray.Array[K, handle.ID[K]] parallel arrays (prev,
// next, opposite) rather than per-element heap nodes, per spec.md §9:
// "must be implemented as a vector of triples... random access by handle
// is essential and allocation churn would dominate". Backing each triple
// array with harray.Array ties its growth to the same registry every
// other handle-indexed structure on the graph uses.
package dset

import (
	"github.com/graphia-go/graphon/handle"
	"github.com/graphia-go/graphon/harray"
)

// Type classifies a handle's membership in a Collection.
type Type int

const (
	// Not means the handle is in no list, or is the sole member of a
	// one-element list (spec.md §4.3: "Not is 'in no list or a
	// singleton'").
	Not Type = iota
	// Head means the handle is the first, naming element of a
	// multi-element list.
	Head
	// Tail means the handle is any non-head member of a multi-element
	// list (an interior "middle" node counts as Tail too).
	Tail
)

func (t Type) String() string {
	switch t {
	case Head:
		return "Head"
	case Tail:
		return "Tail"
	default:
		return "Not"
	}
}

// Collection is a disjoint-set structure over handle.ID[K], backed by
// three parallel dense arrays registered with reg.
type Collection[K any] struct {
	prev *harray.Array[K, handle.ID[K]]
	next *harray.Array[K, handle.ID[K]]
	opp  *harray.Array[K, handle.ID[K]]
}

// NewCollection creates an empty Collection whose triple arrays grow
// alongside every other array registered against reg.
func NewCollection[K any](reg *harray.Registry) *Collection[K] {
	return &Collection[K]{
		prev: harray.NewArray[K, handle.ID[K]](reg),
		next: harray.NewArray[K, handle.ID[K]](reg),
		opp:  harray.NewArray[K, handle.ID[K]](reg),
	}
}

func (c *Collection[K]) get3(h handle.ID[K]) (p, n, o handle.ID[K], err error) {
	if p, err = c.prev.Get(h); err != nil {
		return
	}
	if n, err = c.next.Get(h); err != nil {
		return
	}
	o, err = c.opp.Get(h)
	return
}

func (c *Collection[K]) set3(h, p, n, o handle.ID[K]) error {
	if err := c.prev.Set(h, p); err != nil {
		return err
	}
	if err := c.next.Set(h, n); err != nil {
		return err
	}
	return c.opp.Set(h, o)
}

// state is the internal five-way classification the triple encoding
// distinguishes; TypeOf collapses Middle and Tail into the externally
// visible Tail per spec.md §4.3.
type state int

const (
	stNull state = iota
	stSingleton
	stHead
	stMiddle
	stTail
)

func (c *Collection[K]) stateOf(h handle.ID[K]) (state, handle.ID[K], handle.ID[K], handle.ID[K], error) {
	p, n, o, err := c.get3(h)
	if err != nil {
		return stNull, p, n, o, err
	}
	switch {
	case p.IsNull() && n.IsNull() && o.IsNull():
		return stNull, p, n, o, nil
	case p == h && n == h && o == h:
		return stSingleton, p, n, o, nil
	case p.IsNull():
		return stHead, p, n, o, nil
	case n == h:
		return stTail, p, n, o, nil
	default:
		return stMiddle, p, n, o, nil
	}
}

// TypeOf reports whether h is Not, Head or Tail in this collection.
func (c *Collection[K]) TypeOf(h handle.ID[K]) (Type, error) {
	st, _, _, _, err := c.stateOf(h)
	if err != nil {
		return Not, err
	}
	switch st {
	case stHead:
		return Head, nil
	case stMiddle, stTail:
		return Tail, nil
	default:
		return Not, nil
	}
}

// tailOf returns the structural tail of the list headed by h, assuming h
// is already known to be Head-class (Not-as-singleton, or Head). O(1):
// the tail is always directly reachable via the head's opposite pointer,
// or is h itself when h is absent or a singleton.
func (c *Collection[K]) tailOf(h handle.ID[K]) (handle.ID[K], error) {
	p, _, o, err := c.get3(h)
	if err != nil {
		return handle.ID[K](handle.Null), err
	}
	if p.IsNull() && !o.IsNull() && o != h {
		return o, nil
	}
	return h, nil
}

// Add inserts element into the set named by setID, or creates a new
// singleton set headed by element if setID is null. If both setID and
// element already name non-empty lists, the two lists are concatenated.
// Returns the new set's name, which spec.md §4.3 defines as the smaller
// of the two heads for stable, deterministic naming.
func (c *Collection[K]) Add(setID, element handle.ID[K]) (handle.ID[K], error) {
	if element.IsNull() {
		return handle.ID[K](handle.Null), ErrBadHandle
	}

	if setID.IsNull() {
		if err := c.set3(element, element, element, element); err != nil {
			return handle.ID[K](handle.Null), err
		}
		return element, nil
	}

	// Both operands must currently be head-class (Not-as-singleton or
	// Head); a Tail cannot directly name a list.
	t1, err := c.requireHeadClass(setID)
	if err != nil {
		return handle.ID[K](handle.Null), err
	}
	t2, err := c.requireHeadClass(element)
	if err != nil {
		return handle.ID[K](handle.Null), err
	}

	if setID == element {
		// Already the same (singleton) set; nothing to do.
		return setID, nil
	}

	newHead, newTail, otherHead, otherTail := setID, t1, element, t2
	if element < setID {
		newHead, newTail, otherHead, otherTail = element, t2, setID, t1
	}

	if err := c.next.Set(newTail, otherHead); err != nil {
		return handle.ID[K](handle.Null), err
	}
	if err := c.prev.Set(otherHead, newTail); err != nil {
		return handle.ID[K](handle.Null), err
	}
	if otherHead != otherTail {
		if err := c.opp.Set(otherHead, handle.ID[K](handle.Null)); err != nil {
			return handle.ID[K](handle.Null), err
		}
	}
	if err := c.prev.Set(newHead, handle.ID[K](handle.Null)); err != nil {
		return handle.ID[K](handle.Null), err
	}
	if err := c.next.Set(otherTail, otherTail); err != nil {
		return handle.ID[K](handle.Null), err
	}
	if err := c.opp.Set(otherTail, newHead); err != nil {
		return handle.ID[K](handle.Null), err
	}
	if err := c.opp.Set(newHead, otherTail); err != nil {
		return handle.ID[K](handle.Null), err
	}

	return newHead, nil
}

// requireHeadClass validates that h is currently Not (absent or
// singleton) or Head, and returns its structural tail (itself, for the
// Not case).
func (c *Collection[K]) requireHeadClass(h handle.ID[K]) (handle.ID[K], error) {
	st, _, _, o, err := c.stateOf(h)
	if err != nil {
		return handle.ID[K](handle.Null), err
	}
	switch st {
	case stNull, stSingleton:
		return h, nil
	case stHead:
		return o, nil
	default:
		return handle.ID[K](handle.Null), ErrNotAHead
	}
}

// Remove removes element from its current set. The returned handle is
// the (possibly renamed) head of the remaining set, or the null handle
// if the set is now empty. setID is the caller's belief about element's
// current set head; it is only consulted when element itself is the
// head being removed (i.e. a rename is possible) or to catch obviously
// inconsistent callers — it is not required for correctness of the O(1)
// splice itself, mirroring the original implementation's reliance on the
// element's own triple to decide the shape of the removal.
func (c *Collection[K]) Remove(setID, element handle.ID[K]) (handle.ID[K], error) {
	st, p, n, o, err := c.stateOf(element)
	if err != nil {
		return handle.ID[K](handle.Null), err
	}

	switch st {
	case stNull:
		return handle.ID[K](handle.Null), ErrNotAMember

	case stSingleton:
		if err := c.clear(element); err != nil {
			return handle.ID[K](handle.Null), err
		}
		return handle.ID[K](handle.Null), nil

	case stHead:
		// o is the tail of this list.
		if n == o {
			// Exactly two elements: promote the tail to a singleton.
			if err := c.set3(o, o, o, o); err != nil {
				return handle.ID[K](handle.Null), err
			}
			if err := c.clear(element); err != nil {
				return handle.ID[K](handle.Null), err
			}
			return o, nil
		}
		// Three or more elements: promote n to head.
		if err := c.prev.Set(n, handle.ID[K](handle.Null)); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.opp.Set(n, o); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.opp.Set(o, n); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.clear(element); err != nil {
			return handle.ID[K](handle.Null), err
		}
		return n, nil

	case stTail:
		// o is the head of this list.
		if p == o {
			// Exactly two elements: promote the head to a singleton.
			if err := c.set3(o, o, o, o); err != nil {
				return handle.ID[K](handle.Null), err
			}
			if err := c.clear(element); err != nil {
				return handle.ID[K](handle.Null), err
			}
			return o, nil
		}
		// Three or more elements: promote p to tail; head is unchanged.
		if err := c.next.Set(p, p); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.opp.Set(p, o); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.opp.Set(o, p); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.clear(element); err != nil {
			return handle.ID[K](handle.Null), err
		}
		return o, nil

	default: // stMiddle
		if err := c.next.Set(p, n); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.prev.Set(n, p); err != nil {
			return handle.ID[K](handle.Null), err
		}
		if err := c.clear(element); err != nil {
			return handle.ID[K](handle.Null), err
		}
		return setID, nil
	}
}

func (c *Collection[K]) clear(h handle.ID[K]) error {
	return c.set3(h, handle.ID[K](handle.Null), handle.ID[K](handle.Null), handle.ID[K](handle.Null))
}

// Head returns the head of the set containing h: h itself if h is Not or
// Head, or the head recorded in h's opposite pointer if h is Tail.
func (c *Collection[K]) Head(h handle.ID[K]) (handle.ID[K], error) {
	st, _, _, o, err := c.stateOf(h)
	if err != nil {
		return handle.ID[K](handle.Null), err
	}
	switch st {
	case stNull, stSingleton, stHead:
		return h, nil
	default: // Middle/Tail: opposite is only maintained for the tail node
		return c.headFromMember(h)
	}
}

// headFromMember walks backwards from a middle/tail member to the list's
// head. Only used by Head() for diagnostics/tests; the hot paths in
// package graph track heads directly rather than walking for them.
func (c *Collection[K]) headFromMember(h handle.ID[K]) (handle.ID[K], error) {
	cur := h
	for {
		p, _, _, err := c.get3(cur)
		if err != nil {
			return handle.ID[K](handle.Null), err
		}
		if p.IsNull() {
			return cur, nil
		}
		cur = p
	}
}

// Iterate calls fn for every member of the list headed by head, in
// head-to-tail order, stopping early if fn returns false. If head is Not
// (absent or singleton) the list contains exactly that one element.
func (c *Collection[K]) Iterate(head handle.ID[K], fn func(handle.ID[K]) bool) error {
	if head.IsNull() {
		return nil
	}
	cur := head
	for {
		if !fn(cur) {
			return nil
		}
		_, n, _, err := c.get3(cur)
		if err != nil {
			return err
		}
		if n == cur {
			return nil // reached the tail
		}
		cur = n
	}
}

// Members collects Iterate's output into a slice, for tests and small
// call sites where a closure is overkill.
func (c *Collection[K]) Members(head handle.ID[K]) ([]handle.ID[K], error) {
	var out []handle.ID[K]
	err := c.Iterate(head, func(h handle.ID[K]) bool {
		out = append(out, h)
		return true
	})
	return out, err
}

// Count returns the number of elements in the list headed by head (1 for
// a singleton/Not handle, the group's cardinality for a Head handle).
func (c *Collection[K]) Count(head handle.ID[K]) (int, error) {
	n := 0
	err := c.Iterate(head, func(handle.ID[K]) bool { n++; return true })
	return n, err
}

// CloneInto returns a deep copy of c's triples, registered against reg.
// Used by package graph's CloneFrom, which needs the copied incidence
// collections to be backed by the destination graph's own registry
// rather than aliasing the source graph's arrays.
func (c *Collection[K]) CloneInto(reg *harray.Registry) *Collection[K] {
	clone := NewCollection[K](reg)
	n := c.prev.Len()
	reg.GrowTo(n)
	for i := 0; i < n; i++ {
		h := handle.ID[K](i)
		p, _ := c.prev.Get(h)
		nx, _ := c.next.Get(h)
		o, _ := c.opp.Get(h)
		clone.set3(h, p, nx, o)
	}
	return clone
}

// Invalidate severs this collection's three backing arrays from their
// registry; subsequent access fails with harray.ErrInvalidated.
func (c *Collection[K]) Invalidate() {
	c.prev.Invalidate()
	c.next.Invalidate()
	c.opp.Invalidate()
}
