package scheduler

import "fmt"

// runGuarded runs fn on the calling goroutine and turns a panic into an
// error instead of propagating it, matching the recover-and-report pattern
// the pool-backed scheduler and Run both rely on.
func runGuarded(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: execution panicked: %v", r)
		}
	}()
	fn()
	return nil
}
