package handle

import "errors"

// ErrNullHandle indicates an operation was given a null handle where a
// concrete element identity was required. This is a programmer error per
// spec.md §7: it is returned rather than hidden, but callers should treat
// it as a bug, not a recoverable condition.
var ErrNullHandle = errors.New("handle: null handle")
