package future

import (
	"fmt"

	"github.com/ygrebnov/sender/metrics"
	"github.com/ygrebnov/sender/pool"
)

// SpawnOption configures a SpawnConfig. Use NewSpawnOptions(opts...) to
// assemble one, or construct a SpawnConfig literal directly.
type SpawnOption func(*SpawnConfig)

// WithAllocator supplies the pool used to allocate spawned-operation
// headers.
func WithAllocator(p pool.Pool) SpawnOption {
	return func(c *SpawnConfig) { c.Allocator = p }
}

// WithDebugAssertions toggles the contract-violation panics.
func WithDebugAssertions(enabled bool) SpawnOption {
	return func(c *SpawnConfig) { c.DebugAssertionsEnabled = enabled }
}

// WithOnUnhandledError overrides the hook invoked when a detached spawn
// fails with no attached Future to observe the error.
func WithOnUnhandledError(fn func(error)) SpawnOption {
	return func(c *SpawnConfig) { c.OnUnhandledError = fn }
}

// WithMetrics supplies the provider spawn-count and abandonment-count
// observations are reported to.
func WithMetrics(p metrics.Provider) SpawnOption {
	return func(c *SpawnConfig) { c.Metrics = p }
}

// NewSpawnOptions assembles a SpawnConfig from opts, layered over
// defaultSpawnConfig. A nil option panics: it is always a caller bug, never
// a condition worth limping past.
func NewSpawnOptions(opts ...SpawnOption) SpawnConfig {
	cfg := defaultSpawnConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("nil spawn option")
		}
		opt(&cfg)
	}
	if err := validateSpawnConfig(&cfg); err != nil {
		panic(fmt.Errorf("invalid spawn config: %w", err))
	}
	return cfg
}
