package pass

import (
	"time"

	"github.com/ygrebnov/sender"
)

// AsyncCall returns a sender that completes with a value once an acceptor
// shows up (via TryAccept/AsyncAccept) to take it. If an acceptor is
// already waiting when Start runs, the exchange happens inline on the
// starting goroutine; otherwise this call registers as the waiting caller
// and is completed later by whichever acceptor operation claims it. A
// stop request cancels the wait (SetDone) if no acceptor has claimed it
// yet.
func AsyncCall[T any](p *Pass[T], value T) sender.Sender[struct{}] {
	return asyncCallSender[T]{pass: p, value: value}
}

// AsyncThrow is AsyncCall's failure counterpart: it completes a waiting
// acceptor with an error instead of a value. Starting it on a
// NewNoThrow-constructed Pass panics with ErrThrowDisabled.
func AsyncThrow[T any](p *Pass[T], err error) sender.Sender[struct{}] {
	return asyncCallSender[T]{pass: p, err: err, isThrow: true}
}

// AsyncAccept returns a sender that completes with the value (or error)
// handed over by whichever TryCall/AsyncCall/TryThrow/AsyncThrow claims it.
// If a caller is already waiting when Start runs, the exchange happens
// inline; otherwise this registers as the waiting acceptor. A stop request
// cancels the wait (SetDone) if no caller has claimed it yet.
func AsyncAccept[T any](p *Pass[T]) sender.Sender[T] {
	return asyncAcceptSender[T]{pass: p}
}

type asyncCallSender[T any] struct {
	pass    *Pass[T]
	value   T
	err     error
	isThrow bool
}

func (s asyncCallSender[T]) Connect(r sender.Receiver[struct{}]) sender.OperationState {
	return &asyncCallOp[T]{sender: s, r: r}
}

type asyncCallOp[T any] struct {
	sender  asyncCallSender[T]
	r       sender.Receiver[struct{}]
	started bool
}

func (op *asyncCallOp[T]) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	if op.sender.isThrow && !op.sender.pass.throwEnabled {
		panic(ErrThrowDisabled)
	}

	p := op.sender.pass

	p.mu.Lock()
	a := p.waitingAccept
	var cancel func()
	var w *callWaiter[T]
	if a != nil {
		p.waitingAccept = nil
		cancel = a.cancel
	} else {
		w = &callWaiter[T]{isThrow: op.sender.isThrow, value: op.sender.value, err: op.sender.err, receiver: op.r, createdAt: time.Now()}
		p.waitingCall = w
	}
	p.mu.Unlock()

	if a != nil {
		if cancel != nil {
			cancel()
		}
		p.rendezvousLatency.Record(time.Since(a.createdAt).Seconds())
		if op.sender.isThrow {
			newErrorForwarder[T](a.receiver, op.sender.err).Run()
		} else {
			newValueForwarder[T](a.receiver, op.sender.value).Run()
		}
		op.r.SetValue(struct{}{})
		return
	}

	token := sender.Query[sender.StopToken](op.r, sender.StopTokenKey, sender.StopToken{})
	unregister := token.Register(func() {
		p.mu.Lock()
		matched := p.waitingCall == w
		if matched {
			p.waitingCall = nil
		}
		p.mu.Unlock()
		if matched {
			op.r.SetDone()
		}
	})

	// Publish the unregister hook under the mutex so whichever acceptor
	// claims w sees it; if w was already claimed, tear it down ourselves.
	p.mu.Lock()
	if p.waitingCall == w {
		w.cancel = unregister
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	unregister()
}

type asyncAcceptSender[T any] struct {
	pass *Pass[T]
}

func (s asyncAcceptSender[T]) Connect(r sender.Receiver[T]) sender.OperationState {
	return &asyncAcceptOp[T]{sender: s, r: r}
}

type asyncAcceptOp[T any] struct {
	sender  asyncAcceptSender[T]
	r       sender.Receiver[T]
	started bool
}

func (op *asyncAcceptOp[T]) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	p := op.sender.pass

	p.mu.Lock()
	c := p.waitingCall
	var cancel func()
	var w *acceptWaiter[T]
	if c != nil {
		p.waitingCall = nil
		cancel = c.cancel
	} else {
		w = &acceptWaiter[T]{receiver: op.r, createdAt: time.Now()}
		p.waitingAccept = w
	}
	p.mu.Unlock()

	if c != nil {
		if cancel != nil {
			cancel()
		}
		p.rendezvousLatency.Record(time.Since(c.createdAt).Seconds())
		if c.isThrow {
			newErrorForwarder[T](op.r, c.err).Run()
		} else {
			newValueForwarder[T](op.r, c.value).Run()
		}
		newValueForwarder[struct{}](c.receiver, struct{}{}).Run()
		return
	}

	token := sender.Query[sender.StopToken](op.r, sender.StopTokenKey, sender.StopToken{})
	unregister := token.Register(func() {
		p.mu.Lock()
		matched := p.waitingAccept == w
		if matched {
			p.waitingAccept = nil
		}
		p.mu.Unlock()
		if matched {
			op.r.SetDone()
		}
	})

	p.mu.Lock()
	if p.waitingAccept == w {
		w.cancel = unregister
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	unregister()
}
