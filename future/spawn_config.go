package future

import (
	"github.com/ygrebnov/sender/metrics"
	"github.com/ygrebnov/sender/pool"
)

// SpawnConfig tunes how Spawn allocates and reports on a spawned operation.
type SpawnConfig struct {
	// Allocator supplies and reclaims the spawned operation's header. A nil
	// Allocator (the default) means Spawn allocates a plain Go value per
	// call and lets the garbage collector reclaim it; supplying a
	// pool.Pool makes that allocation reusable under load.
	Allocator pool.Pool

	// DebugAssertionsEnabled gates the panic raised when a spawned
	// operation is completed a second time (a second SetValue, SetError or
	// SetDone). A Future's own misuse panics (Start called twice, a second
	// Connect, Drop or Detach) are raised regardless of this setting.
	// Disabling this trades safety nets for avoiding the check's (small)
	// runtime cost.
	// Default: true.
	DebugAssertionsEnabled bool

	// OnUnhandledError is invoked when a detached spawned operation (no
	// attached Future, see Detach) completes with an error that therefore
	// has nowhere else to go.
	// Default: panic(err).
	OnUnhandledError func(error)

	// Metrics receives spawn-count and abandonment-count observations.
	// Default: metrics.NewNoopProvider().
	Metrics metrics.Provider
}
