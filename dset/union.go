package dset

import "github.com/graphia-go/graphon/handle"

// unionSource pairs a Collection with one of its set heads. Union holds a
// small-vector of these (spec.md §4.3: "an adapter that holds a
// small-vector/heap-vector of set pointers and iterates each in turn").
type unionSource[K any] struct {
	c    *Collection[K]
	head handle.ID[K]
}

// Union is a read-only view over several set heads, which need not belong
// to the same Collection - this is what lets "all edges incident to a
// node" be expressed as the union of that node's separate outgoing and
// incoming Collections, and "all edges incident to a set of nodes" as the
// union across every node's own pair.
type Union[K any] struct {
	sources []unionSource[K]
}

// NewUnion builds an empty Union; call Add to register each set head.
func NewUnion[K any]() *Union[K] {
	return &Union[K]{}
}

// Add registers one more (collection, head) set to the union and returns
// u, so calls can be chained.
func (u *Union[K]) Add(c *Collection[K], head handle.ID[K]) *Union[K] {
	u.sources = append(u.sources, unionSource[K]{c: c, head: head})
	return u
}

// Iterate calls fn once for every distinct member across all of the
// union's sets, in the order the sets were added and each set in its own
// head-to-tail order, stopping early if fn returns false. A member
// present in more than one set is only visited once.
func (u *Union[K]) Iterate(fn func(handle.ID[K]) bool) error {
	seen := make(map[handle.ID[K]]bool)
	for _, s := range u.sources {
		stopped := false
		err := s.c.Iterate(s.head, func(m handle.ID[K]) bool {
			if seen[m] {
				return true
			}
			seen[m] = true
			if !fn(m) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
	}
	return nil
}

// Members collects Iterate's output into a slice.
func (u *Union[K]) Members() ([]handle.ID[K], error) {
	var out []handle.ID[K]
	err := u.Iterate(func(h handle.ID[K]) bool {
		out = append(out, h)
		return true
	})
	return out, err
}
