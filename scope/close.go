package scope

import "github.com/ygrebnov/sender"

// Close requests stop and then joins, in one call: every outstanding
// nested operation observes the stop request immediately, and the caller
// gets a single completion for "fully drained". Its Start calls
// sc.RequestStop and then starts a Join(sc) operation: the same two steps,
// in the same order, as calling RequestStop and then starting Join.
func Close(sc *Scope) sender.Sender[struct{}] {
	return closeSender{scope: sc}
}

type closeSender struct {
	scope *Scope
}

func (s closeSender) Connect(r sender.Receiver[struct{}]) sender.OperationState {
	return &closeOp{inner: Join(s.scope).Connect(r), scope: s.scope}
}

type closeOp struct {
	inner   sender.OperationState
	scope   *Scope
	started bool
}

func (op *closeOp) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true
	op.scope.RequestStop()
	op.inner.Start()
}
