// Package scheduler provides reference Scheduler implementations used to
// exercise scheduler affinity (see the root sender package's
// SchedulerKey query and the pass package's completion forwarder) in
// tests. Neither implementation is a requirement of the protocol
// core: any value satisfying Scheduler works.
package scheduler

import "github.com/ygrebnov/sender"

// Scheduler is any execution context that can hand back a sender
// completing on it. Receiver.Query(sender.SchedulerKey) is expected to
// resolve to a value satisfying this interface when a receiver declares
// scheduler affinity.
type Scheduler interface {
	Schedule() sender.Sender[struct{}]
}
