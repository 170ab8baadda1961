// Package pass implements a single-slot, bidirectional rendezvous channel
// between one caller side and one acceptor side, expressed both as
// synchronous try-operations and as senders.
package pass

import (
	"sync"
	"time"

	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/metrics"
)

// Pass is a single-slot rendezvous: at most one of a waiting call or a
// waiting accept is outstanding at any time, guarded by one mutex. New
// constructs a failure-capable Pass (Throw/AsyncThrow available);
// NewNoThrow constructs one where those two panic with ErrThrowDisabled,
// for callers who want the state machine restricted to value rendezvous.
type Pass[T any] struct {
	mu            sync.Mutex
	waitingCall   *callWaiter[T]
	waitingAccept *acceptWaiter[T]
	throwEnabled  bool

	rendezvousLatency metrics.Histogram
}

// Option configures a Pass at construction time.
type Option[T any] func(*Pass[T])

// WithMetrics wires p as the provider used to record this Pass's
// rendezvous latency (the time a waiting side spent waiting before the
// other side showed up; zero for an immediate match). The default is a
// no-op provider.
func WithMetrics[T any](p metrics.Provider) Option[T] {
	return func(pass *Pass[T]) {
		pass.rendezvousLatency = p.Histogram("sender_pass_rendezvous_latency_seconds",
			metrics.WithDescription("time a waiting side spent waiting before rendezvous"),
			metrics.WithUnit("seconds"))
	}
}

func newPass[T any](throwEnabled bool, opts []Option[T]) *Pass[T] {
	p := &Pass[T]{throwEnabled: throwEnabled, rendezvousLatency: metrics.NewNoopProvider().Histogram("")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New returns a failure-capable Pass: TryThrow and AsyncThrow are usable.
func New[T any](opts ...Option[T]) *Pass[T] {
	return newPass[T](true, opts)
}

// NewNoThrow returns a Pass where TryThrow/AsyncThrow panic with
// ErrThrowDisabled: only value rendezvous is possible.
func NewNoThrow[T any](opts ...Option[T]) *Pass[T] {
	return newPass[T](false, opts)
}

type callWaiter[T any] struct {
	isThrow   bool
	value     T
	err       error
	receiver  sender.Receiver[struct{}]
	cancel    func()
	createdAt time.Time
}

type acceptWaiter[T any] struct {
	receiver  sender.Receiver[T]
	cancel    func()
	createdAt time.Time
}

// IsIdle reports whether neither side is waiting.
func (p *Pass[T]) IsIdle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitingCall == nil && p.waitingAccept == nil
}

// IsExpectingCall reports whether an acceptor is waiting for a caller.
func (p *Pass[T]) IsExpectingCall() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitingAccept != nil
}

// IsExpectingAccept reports whether a caller is waiting for an acceptor.
func (p *Pass[T]) IsExpectingAccept() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitingCall != nil
}

// TryCall delivers value to a waiting acceptor and reports whether one was
// present. Delivery goes through the acceptor's declared scheduler, if it
// has one (see completionForwarder). It never blocks and never registers a
// waiter itself; use AsyncCall to wait for an acceptor to show up.
func (p *Pass[T]) TryCall(value T) bool {
	p.mu.Lock()
	a := p.waitingAccept
	if a == nil {
		p.mu.Unlock()
		return false
	}
	p.waitingAccept = nil
	cancel := a.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.rendezvousLatency.Record(time.Since(a.createdAt).Seconds())
	newValueForwarder[T](a.receiver, value).Run()
	return true
}

// TryThrow delivers err to a waiting acceptor, through its declared
// scheduler if it has one. Panics with ErrThrowDisabled on a
// NewNoThrow-constructed Pass.
func (p *Pass[T]) TryThrow(err error) bool {
	if !p.throwEnabled {
		panic(ErrThrowDisabled)
	}

	p.mu.Lock()
	a := p.waitingAccept
	if a == nil {
		p.mu.Unlock()
		return false
	}
	p.waitingAccept = nil
	cancel := a.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.rendezvousLatency.Record(time.Since(a.createdAt).Seconds())
	newErrorForwarder[T](a.receiver, err).Run()
	return true
}

// TryAccept hands a waiting caller's outcome to fn inline and reports
// whether a caller was present. fn receives the caller's value, or a
// non-nil err if the caller was a throw; the caller's own completion is
// acknowledged either way. It never blocks and never registers a waiter
// itself; use AsyncAccept to wait for a caller to show up.
func (p *Pass[T]) TryAccept(fn func(value T, err error)) bool {
	p.mu.Lock()
	c := p.waitingCall
	if c == nil {
		p.mu.Unlock()
		return false
	}
	p.waitingCall = nil
	cancel := c.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.rendezvousLatency.Record(time.Since(c.createdAt).Seconds())

	if c.isThrow {
		var zero T
		fn(zero, c.err)
	} else {
		fn(c.value, nil)
	}
	newValueForwarder[struct{}](c.receiver, struct{}{}).Run()
	return true
}

// TryAcceptValue is TryAccept for the common value-only case. A throw
// caller has nowhere to put its error here (this overload has no error
// channel), so it is acknowledged and reported as (zero, false); callers
// expecting Throw should use TryAccept or AsyncAccept instead.
func (p *Pass[T]) TryAcceptValue() (T, bool) {
	var (
		v       T
		isValue bool
	)
	p.TryAccept(func(value T, err error) {
		if err == nil {
			v = value
			isValue = true
		}
	})
	return v, isValue
}

// TryCallValue is TryCall for callers who don't need to know whether the
// call landed via a richer protocol — identical behavior, named for
// symmetry with TryAcceptValue.
func (p *Pass[T]) TryCallValue(value T) bool {
	return p.TryCall(value)
}
