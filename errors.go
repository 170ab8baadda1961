package sender

import "errors"

// Namespace prefixes every sentinel error defined by this package, so that
// callers inspecting error text (or wrapping with errorc) can tell protocol
// violations in this package apart from a Receiver's own errors.
const Namespace = "sender"

var (
	// ErrAlreadyStarted is the panic value raised by an OperationState's
	// Start when it is invoked more than once. Start must be called exactly
	// once.
	ErrAlreadyStarted = errors.New(Namespace + ": operation state already started")

	// ErrAlreadyCompleted indicates a receiver completion method (SetValue,
	// SetError, SetDone) was invoked on an operation state that had already
	// completed. An operation state may complete at most once.
	ErrAlreadyCompleted = errors.New(Namespace + ": operation state already completed")

	// ErrNotStarted describes a sender's result being observed before Start
	// has been called on its connected operation state. No operation in
	// this module returns it.
	ErrNotStarted = errors.New(Namespace + ": operation state not started")

	// ErrScopeClosed describes Nest being attempted against a scope that has
	// already begun joining. Such a nested sender completes with SetDone,
	// which carries no error value, so this error is not delivered through
	// any completion channel.
	ErrScopeClosed = errors.New(Namespace + ": scope is closed to new work")

	// ErrFutureAbandoned describes a Future dropped before its operation
	// completed. Drop and Detach do not deliver it: a dropped Future's
	// result is discarded, and a detached operation's error goes to the
	// OnUnhandledError hook of package future.
	ErrFutureAbandoned = errors.New(Namespace + ": future abandoned before completion")

	// ErrPassBusy describes a Pass slot already occupied by a waiting
	// party. The Try* methods of package pass report their outcome as a
	// bool and do not return it.
	ErrPassBusy = errors.New(Namespace + ": pass already has a waiting party")

	// ErrQueryNotFound describes a QueryKey with no registered value.
	// Receiver.Query reports a missing key as (nil, false) and does not
	// return this error.
	ErrQueryNotFound = errors.New(Namespace + ": query key not found")
)
