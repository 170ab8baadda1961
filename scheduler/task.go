package scheduler

import (
	"context"

	"github.com/ygrebnov/sender"
)

// Run schedules fn on sch and delivers its result as a Sender[T]: Schedule
// completes, then fn runs racing ctx's cancellation, and whichever finishes
// first determines the completion.
func Run[T any](sch Scheduler, ctx context.Context, fn func(context.Context) (T, error)) sender.Sender[T] {
	return runSender[T]{sch: sch, ctx: ctx, fn: fn}
}

type runSender[T any] struct {
	sch Scheduler
	ctx context.Context
	fn  func(context.Context) (T, error)
}

func (s runSender[T]) Connect(r sender.Receiver[T]) sender.OperationState {
	return &runOp[T]{runSender: s, outer: r}
}

type runOp[T any] struct {
	runSender[T]
	outer   sender.Receiver[T]
	started bool
}

func (op *runOp[T]) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	scheduled := op.sch.Schedule().Connect(&sender.FuncReceiver[struct{}]{
		OnValue: func(struct{}) { op.runAfterSchedule() },
		OnError: op.outer.SetError,
		OnDone:  op.outer.SetDone,
	})
	scheduled.Start()
}

func (op *runOp[T]) runAfterSchedule() {
	var (
		result T
		err    error
	)
	done := make(chan struct{}, 1)

	go func() {
		runErr := runGuarded(func() { result, err = op.fn(op.ctx) })
		if runErr != nil {
			err = runErr
		}
		done <- struct{}{}
	}()

	select {
	case <-op.ctx.Done():
		op.outer.SetError(op.ctx.Err())
	case <-done:
		if err != nil {
			op.outer.SetError(err)
			return
		}
		op.outer.SetValue(result)
	}
}
