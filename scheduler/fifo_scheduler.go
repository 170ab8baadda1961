package scheduler

import (
	"context"
	"sync"

	"github.com/ygrebnov/sender"
)

// FIFOScheduler runs every scheduled completion sequentially, in submission
// order, on a single goroutine. It's a useful baseline for comparing
// against PoolScheduler, and for tests that need deterministic ordering
// across concurrently-started operations.
type FIFOScheduler struct {
	once sync.Once
	ctx  context.Context
	work chan func()
}

// NewFIFOScheduler starts the background dispatch goroutine bound to ctx;
// the scheduler stops accepting work once ctx is done.
func NewFIFOScheduler(ctx context.Context) *FIFOScheduler {
	s := &FIFOScheduler{ctx: ctx, work: make(chan func())}
	s.once.Do(func() { go newDispatcher(s.work).run(ctx) })
	return s
}

func (s *FIFOScheduler) Schedule() sender.Sender[struct{}] {
	return fifoScheduleSender{scheduler: s}
}

type fifoScheduleSender struct {
	scheduler *FIFOScheduler
}

func (s fifoScheduleSender) Connect(r sender.Receiver[struct{}]) sender.OperationState {
	return &fifoScheduleOp{scheduler: s.scheduler, r: r}
}

type fifoScheduleOp struct {
	scheduler *FIFOScheduler
	r         sender.Receiver[struct{}]
	started   bool
}

func (op *fifoScheduleOp) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	select {
	case <-op.scheduler.ctx.Done():
		op.r.SetDone()
	case op.scheduler.work <- func() { op.r.SetValue(struct{}{}) }:
	}
}
