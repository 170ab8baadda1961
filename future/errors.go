package future

import "errors"

// Namespace prefixes every sentinel error this package defines.
const Namespace = "sender/future"

// ErrFutureConsumed is returned (as a panic value from Connect, matching
// the protocol core's own "already started" panic) when a Future is
// connected or dropped more than once. A Future is single-use: exactly one
// of Connect+Start or Drop may happen, exactly once.
var ErrFutureConsumed = errors.New(Namespace + ": future already consumed")
