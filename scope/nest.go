package scope

import "github.com/ygrebnov/sender"

// Nest reserves one of sc's in-flight slots for s at call time and wraps
// it so the slot is held until the returned sender's operation completes.
// The reservation, not the eventual Start, is what keeps a concurrent Join
// from completing while the sender is still pending. If sc has already
// begun joining, no slot is reserved and the returned sender completes
// with SetDone as soon as it is started, never touching s at all.
//
// The reservation is released only by starting the returned sender and
// letting it complete; dropping a reserved sender without starting it
// holds the slot forever and the scope never drains.
func Nest[T any](sc *Scope, s sender.Sender[T]) sender.Sender[T] {
	return nestSender[T]{scope: sc, inner: s, reserved: sc.tryRecordStart()}
}

type nestSender[T any] struct {
	scope    *Scope
	inner    sender.Sender[T]
	reserved bool
}

func (s nestSender[T]) Connect(r sender.Receiver[T]) sender.OperationState {
	return &nestOp[T]{scope: s.scope, inner: s.inner, outer: r, reserved: s.reserved}
}

// Blocking: both the admitted path and the scope-closed done path complete
// inline when the inner sender does; any other inner kind leaves the two
// paths with different behavior, so the composite can only claim Maybe.
func (s nestSender[T]) Blocking() sender.BlockingKind {
	if sender.BlockingOf(s.inner) == sender.BlockingAlwaysInline {
		return sender.BlockingAlwaysInline
	}
	return sender.BlockingMaybe
}

type nestOp[T any] struct {
	scope    *Scope
	inner    sender.Sender[T]
	outer    sender.Receiver[T]
	reserved bool
	started  bool
}

func (op *nestOp[T]) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	if !op.reserved {
		op.outer.SetDone()
		return
	}

	// The inner sender's Connect runs arbitrary composition code and may
	// panic; release the reserved slot before propagating so the scope can
	// still drain.
	connected := false
	defer func() {
		if !connected {
			op.scope.recordDone()
		}
	}()
	inner := op.inner.Connect(&releasingReceiver[T]{scope: op.scope, outer: op.outer})
	connected = true
	inner.Start()
}

// releasingReceiver forwards every completion channel to outer after first
// releasing the scope slot Nest reserved. The slot is released before
// forwarding so that a receiver observing SetValue and immediately calling
// Scope.Join (or checking UseCount) sees the drained count.
//
// Query falls back to the scope's own stop token when the outer receiver
// declares none, so a stop request against the scope reaches every nested
// operation without each caller having to wire the token through manually.
type releasingReceiver[T any] struct {
	scope *Scope
	outer sender.Receiver[T]
}

func (r *releasingReceiver[T]) SetValue(v T) {
	r.scope.recordDone()
	r.outer.SetValue(v)
}

func (r *releasingReceiver[T]) SetError(err error) {
	r.scope.recordDone()
	r.outer.SetError(err)
}

func (r *releasingReceiver[T]) SetDone() {
	r.scope.recordDone()
	r.outer.SetDone()
}

func (r *releasingReceiver[T]) Query(key sender.QueryKey) (any, bool) {
	if v, ok := r.outer.Query(key); ok {
		return v, ok
	}
	if key == sender.StopTokenKey {
		return r.scope.StopToken(), true
	}
	return nil, false
}
