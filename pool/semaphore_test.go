package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSemaphoreBounded_BlocksPastCapacity(t *testing.T) {
	p := NewSemaphoreBounded(1, func() interface{} { return &header{id: 1} })

	first := p.Get()
	require.NotNil(t, first)

	done := make(chan struct{})
	go func() {
		p.Get()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Get should block until Put")
	case <-time.After(50 * time.Millisecond):
	}

	p.Put(first)
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("second Get did not unblock after Put")
	}
}

func TestSemaphoreBounded_GetContextRespectsCancellation(t *testing.T) {
	p := NewSemaphoreBounded(1, func() interface{} { return struct{}{} })
	_ = p.Get() // exhaust the one slot

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.GetContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSemaphoreBounded_DoesNotRecycleValues(t *testing.T) {
	calls := 0
	p := NewSemaphoreBounded(2, func() interface{} {
		calls++
		return calls
	})

	a := p.Get()
	b := p.Get()
	require.NotEqual(t, a, b)
}
