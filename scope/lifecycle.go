package scope

import "sync"

// ShutdownSequence runs a fixed list of steps exactly once, in order, no
// matter how many goroutines call Run concurrently. It is for application
// code that needs to fold Scope.Close together with its own cleanup
// (flushing a metrics provider, releasing a pool) into one deterministic
// sequence.
type ShutdownSequence struct {
	steps []func()
	once  sync.Once
}

// NewShutdownSequence builds a sequence from steps, run in the given order.
// A nil step is skipped.
func NewShutdownSequence(steps ...func()) *ShutdownSequence {
	return &ShutdownSequence{steps: steps}
}

// Run executes every step exactly once, in order. Concurrent callers block
// until the first caller's sequence has finished.
func (s *ShutdownSequence) Run() {
	s.once.Do(func() {
		for _, step := range s.steps {
			if step != nil {
				step()
			}
		}
	})
}
