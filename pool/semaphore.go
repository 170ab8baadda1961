package pool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// SemaphoreBounded caps concurrent allocation at a fixed weight instead of
// recycling values the way NewFixed does: Get always calls newFn, and Put
// only releases the admission slot. It suits callers who want admission
// control over a spawned operation (see package future) rather than object
// reuse — Spawn's own bookkeeping, not the pooled value, is what benefits
// from capping concurrency.
type SemaphoreBounded struct {
	sem   *semaphore.Weighted
	newFn func() interface{}
}

// NewSemaphoreBounded returns a Pool-compatible allocator that admits at
// most capacity concurrent holders. Get blocks on context.Background()
// until a slot is free; use GetContext for cancellation-aware admission.
func NewSemaphoreBounded(capacity int64, newFn func() interface{}) *SemaphoreBounded {
	return &SemaphoreBounded{sem: semaphore.NewWeighted(capacity), newFn: newFn}
}

// Get blocks until a slot is available and then calls newFn.
func (p *SemaphoreBounded) Get() interface{} {
	_ = p.sem.Acquire(context.Background(), 1)
	return p.newFn()
}

// GetContext is Get, but the wait for a free slot honours ctx.
func (p *SemaphoreBounded) GetContext(ctx context.Context) (interface{}, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return p.newFn(), nil
}

// Put releases the admission slot acquired by the matching Get/GetContext.
// The argument is ignored: SemaphoreBounded does not recycle values.
func (p *SemaphoreBounded) Put(interface{}) {
	p.sem.Release(1)
}
