package scheduler

import "github.com/ygrebnov/sender"

// PoolScheduler hands each Schedule() off to a goroutine admitted through a
// pool.Pool (a dynamic pool, a fixed pool, or pool.NewSemaphoreBounded),
// bounding how many scheduled completions run concurrently when the pool
// itself is bounded.
type PoolScheduler struct {
	pool schedulerPool
}

// schedulerPool is the subset of pool.Pool a scheduler needs.
type schedulerPool interface {
	Get() interface{}
	Put(interface{})
}

// NewPoolScheduler wraps p. Each admission token p.Get returns is passed
// straight to p.Put once the scheduled work completes; PoolScheduler
// doesn't interpret the token's type.
func NewPoolScheduler(p schedulerPool) *PoolScheduler {
	return &PoolScheduler{pool: p}
}

// Schedule returns a sender that, once started, acquires a slot from the
// pool, completes on a goroutine, and releases the slot.
func (s *PoolScheduler) Schedule() sender.Sender[struct{}] {
	return poolScheduleSender{scheduler: s}
}

type poolScheduleSender struct {
	scheduler *PoolScheduler
}

func (s poolScheduleSender) Connect(r sender.Receiver[struct{}]) sender.OperationState {
	return &poolScheduleOp{scheduler: s.scheduler, r: r}
}

type poolScheduleOp struct {
	scheduler *PoolScheduler
	r         sender.Receiver[struct{}]
	started   bool
}

func (op *poolScheduleOp) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	token := op.scheduler.pool.Get()
	go func() {
		defer op.scheduler.pool.Put(token)
		if err := runGuarded(func() { op.r.SetValue(struct{}{}) }); err != nil {
			op.r.SetError(err)
		}
	}()
}
