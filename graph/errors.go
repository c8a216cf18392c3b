package graph

import "errors"

var (
	// Programmer errors (spec.md §7): indicate a bug at the call site,
	// never meant to be recovered from. Returned rather than panicked so
	// that callers can still log context before aborting, matching the
	// teacher's own error-return (not panic) discipline.
	ErrBadHandle   = errors.New("graph: bad handle")
	ErrNullHandle  = errors.New("graph: null handle")
	ErrOutOfRange  = errors.New("graph: handle out of range")
	ErrNotInGraph  = errors.New("graph: handle not in graph")
	ErrNotAMember  = errors.New("graph: handle is not a member")
	ErrInvalidated = errors.New("graph: invalidated")

	// Structural rejections (spec.md §7): normal, expected outcomes a
	// caller is meant to check for and handle.
	ErrNoSuchNode      = errors.New("graph: no such node")
	ErrNoSuchEdge      = errors.New("graph: no such edge")
	ErrDuplicateHandle = errors.New("graph: handle already in use")
)
