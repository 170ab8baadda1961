package pass

import "errors"

// Namespace prefixes every sentinel error this package defines.
const Namespace = "sender/pass"

// ErrThrowDisabled is the panic value raised by TryThrow/AsyncThrow on a
// Pass constructed with NewNoThrow.
var ErrThrowDisabled = errors.New(Namespace + ": throw is disabled on this pass (constructed with NewNoThrow)")
