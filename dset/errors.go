package dset

import "errors"

var (
	// ErrBadHandle is returned when a null handle is passed where a
	// concrete element handle is required.
	ErrBadHandle = errors.New("dset: null handle")

	// ErrNotAMember is returned by Remove when the given element is not
	// currently present in any list.
	ErrNotAMember = errors.New("dset: handle is not a member of any set")

	// ErrNotAHead is returned by Add when a non-null setID or element
	// argument names a handle that is currently a Tail (interior or
	// trailing member) rather than a set name.
	ErrNotAHead = errors.New("dset: handle does not name a set")
)
