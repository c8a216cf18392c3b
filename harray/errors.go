package harray

import "errors"

// ErrInvalidated indicates access to a HandleArray whose owner has been
// destroyed. Programmer error per spec.md §7: the caller held onto an
// array past its owner's lifetime.
var ErrInvalidated = errors.New("harray: array invalidated (owner destroyed)")

// ErrOutOfRange indicates a handle outside the array's current size was
// used. Programmer error per spec.md §7: it means the owner failed to
// grow the registry before publishing the handle, a protocol violation.
var ErrOutOfRange = errors.New("harray: handle out of range")
