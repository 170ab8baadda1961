// Package scope implements a reference-counted lifetime anchor for
// in-flight operations, with a single join point that fires once the last
// tracked operation completes.
package scope

import (
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/metrics"
)

// Scope tracks a set of in-flight operations admitted through Nest. Once
// RequestStop or Close has started the join sequence, no further operation
// is admitted: senders produced by Nest against a joining scope complete
// with SetDone instead of running.
//
// State is a single atomic word: bit 0 is the "open" flag (1 = accepting
// new work), the remaining bits are the live operation count shifted left
// by one, so admission checks and count updates land in one CAS.
type Scope struct {
	state      atomic.Uint64
	joinOnce   sync.Once
	joinCh     chan struct{}
	stopSource *sender.StopSource

	metrics     metrics.Provider
	liveOps     metrics.UpDownCounter
	joinLatency metrics.Histogram
}

const openBit = uint64(1)

// Option configures a Scope at construction time.
type Option func(*Scope)

// WithMetrics wires p as the provider used to instrument this scope's
// live-operation count and join latency. The default is a no-op provider.
func WithMetrics(p metrics.Provider) Option {
	return func(sc *Scope) { sc.metrics = p }
}

// New returns an open Scope with zero in-flight operations.
func New(opts ...Option) *Scope {
	sc := &Scope{
		joinCh:     make(chan struct{}),
		stopSource: sender.NewStopSource(),
		metrics:    metrics.NewNoopProvider(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.liveOps = sc.metrics.UpDownCounter("sender_scope_live_operations", metrics.WithDescription("in-flight operations nested in this scope"))
	sc.joinLatency = sc.metrics.Histogram("sender_scope_join_latency_seconds", metrics.WithDescription("time from Join start to scope drain"), metrics.WithUnit("seconds"))
	sc.state.Store(openBit)
	return sc
}

// StopToken returns the queryable stop token backed by this scope's
// internal stop source. Nested operations typically install this under
// sender.StopTokenKey when connecting their own receivers.
func (sc *Scope) StopToken() sender.StopToken {
	return sc.stopSource.Token()
}

// RequestStop closes the scope to new work and asks its internal stop
// source to fire: subsequent Nest attempts complete with SetDone, and every
// operation observing the scope's stop token sees the request. It does not
// wait for in-flight operations to drain; pair it with Join, or call Close
// to do both in one step.
func (sc *Scope) RequestStop() {
	sc.beginJoin()
	sc.stopSource.RequestStop()
}

// UseCount returns the current number of reserved in-flight operations:
// senders returned by Nest, started or not, whose operations have not yet
// completed.
func (sc *Scope) UseCount() uint64 {
	return sc.state.Load() >> 1
}

// JoinStarted reports whether the scope has stopped admitting new work.
func (sc *Scope) JoinStarted() bool {
	return sc.state.Load()&openBit == 0
}

// tryRecordStart admits one more in-flight operation if the scope is still
// open. It returns false (admission refused) once joinStarted is true.
func (sc *Scope) tryRecordStart() bool {
	for {
		old := sc.state.Load()
		if old&openBit == 0 {
			return false
		}
		if sc.state.CompareAndSwap(old, old+2) {
			sc.liveOps.Add(1)
			return true
		}
	}
}

// recordDone releases one in-flight slot and signals the join point if the
// scope has both started joining and drained to zero.
func (sc *Scope) recordDone() {
	for {
		old := sc.state.Load()
		if sc.state.CompareAndSwap(old, old-2) {
			break
		}
	}
	sc.liveOps.Add(-1)
	sc.maybeSignalJoin()
}

// beginJoin transitions joinStarted to true (a no-op if already true) and
// reports whether the scope was already drained (count == 0) at the moment
// of the check.
func (sc *Scope) beginJoin() (drained bool) {
	for {
		old := sc.state.Load()
		if old&openBit == 0 {
			drained = old>>1 == 0
			break
		}
		next := old &^ openBit
		if sc.state.CompareAndSwap(old, next) {
			drained = next>>1 == 0
			break
		}
	}
	sc.maybeSignalJoin()
	return drained
}

func (sc *Scope) maybeSignalJoin() {
	st := sc.state.Load()
	if st&openBit == 0 && st>>1 == 0 {
		sc.joinOnce.Do(func() { close(sc.joinCh) })
	}
}
