package future

import "github.com/ygrebnov/sender/metrics"

// defaultSpawnConfig centralizes default values for SpawnConfig. Applied by
// both Spawn (when no options are given) and NewSpawnOptions (as the
// options builder's base).
func defaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Allocator:              nil,
		DebugAssertionsEnabled: true,
		OnUnhandledError:       defaultOnUnhandledError,
		Metrics:                metrics.NewNoopProvider(),
	}
}

func defaultOnUnhandledError(err error) {
	panic(err)
}

// validateSpawnConfig performs lightweight invariant checks. Reserved for
// future validation expansion; currently every field is individually valid
// at its zero value once defaults have been layered in.
func validateSpawnConfig(_ *SpawnConfig) error {
	return nil
}
