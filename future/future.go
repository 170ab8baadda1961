// Package future implements eager spawn of a sender within a scope,
// yielding a disposable handle (Future) that can observe or abandon the
// spawned operation's result.
package future

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/scope"
)

// spawnState is the atomic state machine driving a spawned operation's
// header, per the table in the package's design notes: init transitions to
// exactly one of {value, error, done, abandoned}; every terminal state
// eventually transitions to complete once both the operation side and the
// future side have released their reference.
type spawnState int32

const (
	stateInit spawnState = iota
	stateAbandoned
	stateValue
	stateError
	stateDone
	stateComplete
)

// spawnOp is the single allocation backing one Spawn call: the operation's
// own bookkeeping (state, refcount, stop source) plus the recorded
// completion, laid out as one struct so the whole header costs one
// allocation.
type spawnOp[T any] struct {
	id       uuid.UUID
	cfg      SpawnConfig
	detached atomic.Bool

	state    atomic.Int32
	refCount atomic.Int32

	event     chan struct{}
	eventOnce sync.Once

	value T
	err   error

	stopSource          *sender.StopSource
	unregisterScopeStop func()
	inner               sender.OperationState
}

func (h *spawnOp[T]) SetValue(v T) { h.complete(stateValue, v, nil) }
func (h *spawnOp[T]) SetError(err error) {
	var zero T
	h.complete(stateError, zero, err)
}
func (h *spawnOp[T]) SetDone() {
	var zero T
	h.complete(stateDone, zero, nil)
}

func (h *spawnOp[T]) Query(key sender.QueryKey) (any, bool) {
	switch key {
	case sender.StopTokenKey:
		return h.stopSource.Token(), true
	case sender.AllocatorKey:
		if h.cfg.Allocator != nil {
			return h.cfg.Allocator, true
		}
	}
	return nil, false
}

func (h *spawnOp[T]) complete(result spawnState, value T, err error) {
	for {
		old := spawnState(h.state.Load())
		if old == stateAbandoned {
			// The future already dropped this operation; nobody will read the
			// completion. Release the operation-side reference and let the
			// loser of the refcount race reclaim the header.
			if h.state.CompareAndSwap(int32(old), int32(stateComplete)) {
				h.unregisterFromScope()
				h.decref()
			}
			return
		}
		if old != stateInit {
			if h.cfg.DebugAssertionsEnabled {
				panic(sender.ErrAlreadyCompleted)
			}
			return
		}
		h.value = value
		h.err = err
		if h.state.CompareAndSwap(int32(old), int32(result)) {
			break
		}
	}

	h.unregisterFromScope()

	if h.detached.Load() {
		if result == stateError {
			h.cfg.OnUnhandledError(err)
		}
		h.cfg.Metrics.Counter("future.spawn.detached.completed").Add(1)
	}

	h.eventOnce.Do(func() { close(h.event) })
	h.decref()
}

// unregisterFromScope tears down the scope-stop forwarding callback
// installed by spawn. Safe to call from within that callback itself.
func (h *spawnOp[T]) unregisterFromScope() {
	if h.unregisterScopeStop != nil {
		h.unregisterScopeStop()
	}
}

// abandon marks the header abandoned if it is still pending, and requests
// stop on it — dropping an unattached future is equivalent to requesting
// stop on the spawned operation and ignoring whatever it eventually
// produces.
func (h *spawnOp[T]) abandon() {
	for {
		old := spawnState(h.state.Load())
		if old != stateInit {
			return
		}
		if h.state.CompareAndSwap(int32(old), int32(stateAbandoned)) {
			h.stopSource.RequestStop()
			h.cfg.Metrics.Counter("future.spawn.abandoned").Add(1)
			return
		}
	}
}

func (h *spawnOp[T]) decref() {
	if h.refCount.Add(-1) == 0 {
		h.finish()
	}
}

func (h *spawnOp[T]) finish() {
	h.state.Store(int32(stateComplete))
	if h.cfg.Allocator != nil {
		h.cfg.Allocator.Put(h)
	}
}

// Future is an owning, single-use handle over a spawned operation. Exactly
// one of (a) connecting and starting it as a Sender[T], or (b) calling
// Drop, may happen, exactly once. This is the Go expression of "move-only
// in spirit": a consumed guard enforced at runtime rather than the
// language's type system.
type Future[T any] struct {
	op   *spawnOp[T]
	used atomic.Bool
}

// RequestStop asks the spawned operation's stop token to fire, without
// consuming the Future — the operation may still complete normally and be
// observed afterward, same as any other cooperative stop request.
func (f *Future[T]) RequestStop() {
	f.op.stopSource.RequestStop()
}

// Blocking: delivery always happens from the event-subscription goroutine,
// never inline with Start.
func (f *Future[T]) Blocking() sender.BlockingKind { return sender.BlockingNever }

// Connect subscribes to the spawned operation's one-shot completion event.
// Connect may be called at most once per Future.
func (f *Future[T]) Connect(r sender.Receiver[T]) sender.OperationState {
	if !f.used.CompareAndSwap(false, true) {
		panic(ErrFutureConsumed)
	}
	return &futureOp[T]{future: f, r: r}
}

// Drop abandons the Future without observing its result, equivalent to
// requesting stop on the underlying operation. Drop may be called at most
// once per Future, and not after Connect.
func (f *Future[T]) Drop() {
	if !f.used.CompareAndSwap(false, true) {
		panic(ErrFutureConsumed)
	}
	f.op.abandon()
	f.op.decref()
}

func (f *Future[T]) deliver(r sender.Receiver[T]) {
	op := f.op
	switch spawnState(op.state.Load()) {
	case stateValue:
		r.SetValue(op.value)
	case stateError:
		r.SetError(op.err)
	default:
		r.SetDone()
	}
	op.decref()
}

type futureOp[T any] struct {
	future  *Future[T]
	r       sender.Receiver[T]
	started bool
}

func (fo *futureOp[T]) Start() {
	if fo.started {
		panic(sender.ErrAlreadyStarted)
	}
	fo.started = true

	go func() {
		<-fo.future.op.event
		fo.future.deliver(fo.r)
	}()
}

func allocateHeader[T any](cfg SpawnConfig) *spawnOp[T] {
	if cfg.Allocator != nil {
		if v := cfg.Allocator.Get(); v != nil {
			if h, ok := v.(*spawnOp[T]); ok {
				*h = spawnOp[T]{}
				return h
			}
		}
	}
	return &spawnOp[T]{}
}

func spawn[T any](sc *scope.Scope, s sender.Sender[T], cfg SpawnConfig, detached bool) (f *Future[T], err error) {
	op := allocateHeader[T](cfg)
	op.id = uuid.New()
	op.cfg = cfg
	op.detached.Store(detached)
	op.event = make(chan struct{})
	op.stopSource = sender.NewStopSource()
	if detached {
		op.refCount.Store(1)
	} else {
		op.refCount.Store(2)
	}

	// Forward the scope's stop request into this operation's own stop
	// source; torn down again once the operation completes.
	op.unregisterScopeStop = sc.StopToken().Register(op.stopSource.RequestStop)

	// Starting the nested operation is what runs the user sender's own
	// Connect, which may panic; recover it into Spawn's error return. The
	// nest operation releases its reserved scope slot before propagating,
	// so a recovered failure leaves the scope's count unchanged.
	nested := scope.Nest(sc, s)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("future: spawn start panicked: %v", v)
				}
			}
		}()
		op.inner = nested.Connect(op)
		op.inner.Start()
	}()
	if err != nil {
		op.unregisterFromScope()
		if cfg.Allocator != nil {
			cfg.Allocator.Put(op)
		}
		return nil, err
	}

	cfg.Metrics.Counter("future.spawn.started").Add(1)

	if detached {
		return nil, nil
	}
	return &Future[T]{op: op}, nil
}

// Spawn allocates an operation connecting s to sc, starts it immediately,
// and returns a Future observing its eventual completion. Spawn fails only
// if wiring the operation itself fails (a panic recovered from s's Connect
// while the nested operation starts); in that case the scope's in-flight
// count is left unchanged and the allocation is reclaimed. Once Spawn
// returns a non-nil Future, nothing about its own bookkeeping can fail
// further.
func Spawn[T any](sc *scope.Scope, s sender.Sender[T], opts ...SpawnOption) (*Future[T], error) {
	cfg := NewSpawnOptions(opts...)
	return spawn[T](sc, s, cfg, false)
}

// SpawnDetached is Spawn without a Future: nobody can observe the result.
// An error completion is routed to cfg.OnUnhandledError since it has
// nowhere else to go.
func SpawnDetached[T any](sc *scope.Scope, s sender.Sender[T], opts ...SpawnOption) error {
	cfg := NewSpawnOptions(opts...)
	_, err := spawn[T](sc, s, cfg, true)
	return err
}

// Detach converts an attached Future into a detached spawn: unlike Drop, it
// does not request stop — the operation keeps running to its natural
// completion — and an eventual error completion is routed to
// cfg.OnUnhandledError instead of being silently discarded. Detach is for
// callers who started with Spawn, perhaps to keep the option of observing
// it open, and later decided not to.
//
// Detach racing with the operation's own completion is inherent to the
// design: if complete() observes the old, not-yet-detached flag in the same
// instant Detach flips it, the error is reported on a best-effort basis.
func Detach[T any](f *Future[T]) {
	if !f.used.CompareAndSwap(false, true) {
		panic(ErrFutureConsumed)
	}
	f.op.detached.Store(true)
	f.op.decref()
}
