package scope

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/metrics"
)

func connectAndStart[T any](s sender.Sender[T]) (value T, err error, done bool) {
	var wg sync.WaitGroup
	wg.Add(1)
	r := &sender.FuncReceiver[T]{
		OnValue: func(v T) { value = v; wg.Done() },
		OnError: func(e error) { err = e; wg.Done() },
		OnDone:  func() { done = true; wg.Done() },
	}
	sender.Start(sender.Connect[T](s, r))
	wg.Wait()
	return
}

func TestNest_AdmitsWorkWhileOpen(t *testing.T) {
	sc := New()
	value, err, done := connectAndStart[int](Nest(sc, sender.Just(7)))

	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, 7, value)
}

func TestNest_RejectsAfterJoinStarted(t *testing.T) {
	sc := New()
	connectAndStart[struct{}](Join(sc)) // drains immediately: nothing was nested

	_, _, done := connectAndStart[int](Nest(sc, sender.Just(7)))
	require.True(t, done)
}

func TestJoin_WaitsForOutstandingNest(t *testing.T) {
	sc := New()

	release := make(chan struct{})
	blocked := sender.JustFrom(func() (int, error) {
		<-release
		return 1, nil
	})

	nestedDone := make(chan struct{})
	go func() {
		connectAndStart[int](Nest(sc, blocked))
		close(nestedDone)
	}()

	// Give the nested op a chance to register before we join.
	time.Sleep(10 * time.Millisecond)

	joinDone := make(chan struct{})
	go func() {
		connectAndStart[struct{}](Join(sc))
		close(joinDone)
	}()

	select {
	case <-joinDone:
		t.Fatal("Join completed before the nested operation finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-nestedDone
	<-joinDone
}

func TestNest_ReservesSlotBeforeStart(t *testing.T) {
	sc := New()

	// Nest alone reserves the slot; the sender has not been started yet.
	nested := Nest(sc, sender.Just(1))
	require.Equal(t, uint64(1), sc.UseCount())

	joinDone := make(chan struct{})
	go func() {
		connectAndStart[struct{}](Join(sc))
		close(joinDone)
	}()

	select {
	case <-joinDone:
		t.Fatal("Join completed while a nested sender was still pending")
	case <-time.After(20 * time.Millisecond):
	}

	// Starting the reserved sender still runs it, even though the join has
	// begun, and its completion is what drains the scope.
	value, err, done := connectAndStart[int](nested)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, 1, value)
	<-joinDone
}

// connectPanicSender stands in for a composed sender whose own Connect
// blows up while wiring.
type connectPanicSender struct{}

func (connectPanicSender) Connect(sender.Receiver[int]) sender.OperationState {
	panic(errors.New("wiring exploded"))
}

func TestNest_ReleasesSlotWhenInnerConnectPanics(t *testing.T) {
	sc := New()

	op := Nest[int](sc, connectPanicSender{}).Connect(&sender.FuncReceiver[int]{})
	require.Panics(t, func() { op.Start() })

	// The reserved slot was released on the way out, so the scope drains.
	require.Equal(t, uint64(0), sc.UseCount())
	connectAndStart[struct{}](Join(sc))
}

func TestJoin_IsIdempotent(t *testing.T) {
	sc := New()
	connectAndStart[struct{}](Join(sc))

	require.NotPanics(t, func() {
		connectAndStart[struct{}](Join(sc))
	})
}

func TestClose_RequestsStopAndJoins(t *testing.T) {
	sc := New()
	_, _, done := connectAndStart[struct{}](Close(sc))

	require.False(t, done)
	require.True(t, sc.stopSource.StopRequested())
	require.True(t, sc.JoinStarted())
}

func TestRequestStop_RejectsSubsequentNest(t *testing.T) {
	sc := New()
	sc.RequestStop()

	require.True(t, sc.JoinStarted())
	_, _, done := connectAndStart[int](Nest(sc, sender.Just(1)))
	require.True(t, done)
}

// tokenProbe reports the stop token its receiver resolves, so tests can
// check what a nested operation actually observes.
type tokenProbe struct {
	got *sender.StopToken
}

func (p tokenProbe) Connect(r sender.Receiver[struct{}]) sender.OperationState {
	return &tokenProbeOp{r: r, got: p.got}
}

type tokenProbeOp struct {
	r   sender.Receiver[struct{}]
	got *sender.StopToken
}

func (op *tokenProbeOp) Start() {
	*op.got = sender.Query[sender.StopToken](op.r, sender.StopTokenKey, sender.StopToken{})
	op.r.SetValue(struct{}{})
}

func TestNest_ExposesScopeStopToken(t *testing.T) {
	sc := New()

	var token sender.StopToken
	connectAndStart[struct{}](Nest[struct{}](sc, tokenProbe{got: &token}))

	require.True(t, token.StopPossible())
	require.False(t, token.StopRequested())

	sc.RequestStop()
	require.True(t, token.StopRequested())
}

func TestAttachFunc_PropagatesError(t *testing.T) {
	sc := New()
	boom := errors.New("boom")

	_, err, _ := connectAndStart[int](AttachFunc(sc, func() (int, error) { return 0, boom }))
	require.ErrorIs(t, err, boom)
}

func TestNew_RecordsLiveOperationsAndJoinLatency(t *testing.T) {
	provider := metrics.NewBasicProvider()
	sc := New(WithMetrics(provider))

	connectAndStart[int](Nest(sc, sender.Just(1)))
	connectAndStart[struct{}](Join(sc))

	live := provider.UpDownCounter("sender_scope_live_operations").(*metrics.BasicUpDownCounter)
	require.Equal(t, int64(0), live.Snapshot())

	latency := provider.Histogram("sender_scope_join_latency_seconds").(*metrics.BasicHistogram)
	require.Equal(t, int64(1), latency.Snapshot().Count)
}

func TestShutdownSequence_RunsStepsOnceInOrder(t *testing.T) {
	var order []int
	var mu sync.Mutex
	record := func(n int) func() {
		return func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		}
	}

	seq := NewShutdownSequence(record(1), record(2), record(3))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); seq.Run() }()
	}
	wg.Wait()

	require.Equal(t, []int{1, 2, 3}, order)
}
