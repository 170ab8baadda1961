// Package sender is the protocol core of a structured asynchronous
// composition library: senders, receivers, and operation states.
//
// A Sender[T] is a lazy description of work that produces at most one
// completion: a value of type T, an error, or cancellation ("done").
// Connect pairs a Sender with a Receiver and returns an OperationState;
// Start begins the work. Exactly one of the receiver's SetValue, SetError,
// or SetDone is invoked before the operation state may be discarded.
//
// Subpackages build structured lifetimes on top of this protocol:
//
//   - scope: a reference-counted lifetime anchor with a single join point.
//   - future: eager spawn of work within a scope, yielding an observable,
//     abandonable handle.
//   - pass: a single-slot rendezvous channel expressed as senders.
//   - scheduler: reference Scheduler implementations used to exercise
//     scheduler affinity in tests.
//   - pool, metrics, operr: ambient infrastructure (allocator pools,
//     instrumentation, correlated errors) shared by the packages above.
//
// Defaults
// Unless overridden via options, the following apply:
//   - future.Spawn: no allocator pool (one plain Go allocation per spawn),
//     debug assertions enabled, unhandled detached errors panic.
//   - pass.New: failure-capable (Throw/AsyncThrow present).
//
// None of these packages import a logging library: this is a leaf
// concurrency-primitives module, observed through its senders' completions
// and through the optional metrics.Provider hook, not through direct log
// output.
package sender
