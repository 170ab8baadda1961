// Package tests exercises cross-package scenarios: spawn/future lifecycle,
// pass rendezvous, and scope-closed admission, driven the way a real
// caller would use this library rather than one package's unit tests in
// isolation. The pass value rendezvous races two goroutines through
// golang.org/x/sync/errgroup.
package tests

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/future"
	"github.com/ygrebnov/sender/pass"
	"github.com/ygrebnov/sender/scope"
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

func TestSpawnAwaitValue(t *testing.T) {
	sc := scope.New()
	f, err := future.Spawn[int](sc, sender.JustFrom(func() (int, error) {
		return 21 * 2, nil
	}))
	require.NoError(t, err)

	value, fErr, _ := connectAndStart[int](f)
	require.NoError(t, fErr)
	require.Equal(t, 42, value)

	connectAndStart[struct{}](scope.Join(sc))
}

// waitForStopSender runs until a stop request arrives through its
// receiver's declared token, then records that it saw the request and
// completes with SetDone.
type waitForStopSender struct {
	stopSeen chan struct{}
}

func (s waitForStopSender) Connect(r sender.Receiver[int]) sender.OperationState {
	return &waitForStopOp{r: r, stopSeen: s.stopSeen}
}

type waitForStopOp struct {
	r        sender.Receiver[int]
	stopSeen chan struct{}
}

func (op *waitForStopOp) Start() {
	token := sender.Query[sender.StopToken](op.r, sender.StopTokenKey, sender.StopToken{})
	token.Register(func() {
		close(op.stopSeen)
		op.r.SetDone()
	})
}

func TestSpawnDropCancels(t *testing.T) {
	sc := scope.New()

	stopSeen := make(chan struct{})
	f, err := future.Spawn[int](sc, waitForStopSender{stopSeen: stopSeen})
	require.NoError(t, err)

	f.Drop()

	select {
	case <-stopSeen:
	case <-time.After(time.Second):
		t.Fatal("spawned operation never observed the stop request")
	}

	connectAndStart[struct{}](scope.Join(sc))
}

func TestPassRendezvousValue(t *testing.T) {
	p := pass.New[string]()

	var g errgroup.Group
	var got string
	g.Go(func() error {
		v, ok := p.TryAcceptValue()
		if !ok {
			// Acceptor arrived first: wait via AsyncAccept instead.
			value, err, _ := connectAndStart[string](pass.AsyncAccept[string](p))
			if err != nil {
				return err
			}
			got = value
			return nil
		}
		got = v
		return nil
	})
	g.Go(func() error {
		time.Sleep(2 * time.Millisecond)
		if !p.TryCall("payload") {
			_, err, _ := connectAndStart[struct{}](pass.AsyncCall[string](p, "payload"))
			return err
		}
		return nil
	})
	require.NoError(t, g.Wait())
	require.Equal(t, "payload", got)
}

func TestPassRendezvousError(t *testing.T) {
	p := pass.New[int]()
	boom := errors.New("boom")

	var wg sync.WaitGroup
	wg.Add(1)
	var gotErr error
	r := &sender.FuncReceiver[int]{
		OnError: func(e error) { gotErr = e; wg.Done() },
	}
	sender.Start(sender.Connect[int](pass.AsyncAccept[int](p), r))

	require.True(t, p.TryThrow(boom))
	wg.Wait()
	require.ErrorIs(t, gotErr, boom)
}

func TestPassCancellation(t *testing.T) {
	p := pass.New[int]()
	src := sender.NewStopSource()

	var wg sync.WaitGroup
	wg.Add(1)
	var done bool
	r := &sender.FuncReceiver[int]{
		OnDone:  func() { done = true; wg.Done() },
		Queries: map[sender.QueryKey]any{sender.StopTokenKey: src.Token()},
	}
	sender.Start(sender.Connect[int](pass.AsyncAccept[int](p), r))

	src.RequestStop()
	wg.Wait()
	require.True(t, done)
}

func TestScopeClosedNest(t *testing.T) {
	sc := scope.New()
	connectAndStart[struct{}](scope.Close(sc))

	_, _, done := connectAndStart[int](scope.Nest(sc, sender.Just(1)))
	require.True(t, done)
}
