package future

import (
	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/scope"
)

// schedulerLike is the minimal shape a scheduler.Scheduler satisfies, kept
// local so future doesn't need to import package scheduler just to accept
// one.
type schedulerLike interface {
	Schedule() sender.Sender[struct{}]
}

// SpawnOn is Spawn, but first hops onto sch before connecting and starting
// s: the spawned operation's own execution, not just its completion
// delivery, happens on sch. A scheduling failure does not fail Spawn
// itself: the spawned operation completes with that error, and s never
// runs in that case.
func SpawnOn[T any](sc *scope.Scope, sch schedulerLike, s sender.Sender[T], opts ...SpawnOption) (*Future[T], error) {
	return Spawn[T](sc, onScheduler[T](sch, s), opts...)
}

// SpawnDetachedOn is SpawnDetached, scheduled onto sch first.
func SpawnDetachedOn[T any](sc *scope.Scope, sch schedulerLike, s sender.Sender[T], opts ...SpawnOption) error {
	return SpawnDetached[T](sc, onScheduler[T](sch, s), opts...)
}

// AttachOn is AttachFunc's scheduler-qualified counterpart: fn runs after
// hopping onto sch, nested in sc.
func AttachOn[T any](sc *scope.Scope, sch schedulerLike, fn func() (T, error), opts ...SpawnOption) (*Future[T], error) {
	return SpawnOn[T](sc, sch, sender.JustFrom(fn), opts...)
}

// onScheduler returns a sender that schedules onto sch, then connects and
// starts inner once the hop completes.
func onScheduler[T any](sch schedulerLike, inner sender.Sender[T]) sender.Sender[T] {
	return onSchedulerSender[T]{sch: sch, inner: inner}
}

type onSchedulerSender[T any] struct {
	sch   schedulerLike
	inner sender.Sender[T]
}

func (s onSchedulerSender[T]) Connect(r sender.Receiver[T]) sender.OperationState {
	return &onSchedulerOp[T]{sender: s, outer: r}
}

type onSchedulerOp[T any] struct {
	sender  onSchedulerSender[T]
	outer   sender.Receiver[T]
	started bool
}

func (op *onSchedulerOp[T]) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	hop := op.sender.sch.Schedule().Connect(&sender.FuncReceiver[struct{}]{
		OnValue: func(struct{}) {
			inner := op.sender.inner.Connect(op.outer)
			inner.Start()
		},
		OnError: op.outer.SetError,
		OnDone:  op.outer.SetDone,
	})
	hop.Start()
}
