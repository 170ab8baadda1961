package sender

// QueryKey identifies a piece of receiver-scoped context retrievable through
// Receiver.Query. This is the Go stand-in for tag-invoke CPOs: a small
// closed set of typed keys instead of per-query free functions.
type QueryKey int

const (
	// StopTokenKey resolves to a StopToken.
	StopTokenKey QueryKey = iota

	// SchedulerKey resolves to a value satisfying the Scheduler contract
	// described in package scheduler (any value with a Schedule method
	// returning a Sender[struct{}]).
	SchedulerKey

	// AllocatorKey resolves to an allocator hook, typically a pool.Pool,
	// used by operations that need to allocate a self-owned header (see
	// package future).
	AllocatorKey

	// ExecutionPolicyKey resolves to an execution-policy value, consumed by
	// algorithms that change behavior depending on inline-vs-deferred
	// execution (see BlockingKind).
	ExecutionPolicyKey
)

// Query looks up key against r and falls back to def when the receiver has
// no value registered for it.
func Query[T any](r interface{ Query(QueryKey) (any, bool) }, key QueryKey, def T) T {
	v, ok := r.Query(key)
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}
