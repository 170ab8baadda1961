package scope

import (
	"time"

	"github.com/ygrebnov/sender"
)

// Join returns a sender that completes with SetValue once sc has both
// stopped admitting new work and drained every in-flight operation. The
// first Start against a given scope is the one that flips joinStarted;
// every subsequent Start (on this or any other Join(sc) sender) observes
// the same drain and still completes, so repeated joins are idempotent.
func Join(sc *Scope) sender.Sender[struct{}] {
	return joinSender{scope: sc}
}

type joinSender struct {
	scope *Scope
}

func (s joinSender) Connect(r sender.Receiver[struct{}]) sender.OperationState {
	return &joinOp{scope: s.scope, r: r}
}

// Blocking: completes inline when the scope is already drained, otherwise
// from the drain signal's goroutine.
func (joinSender) Blocking() sender.BlockingKind { return sender.BlockingMaybe }

type joinOp struct {
	scope   *Scope
	r       sender.Receiver[struct{}]
	started bool
}

func (op *joinOp) Start() {
	if op.started {
		panic(sender.ErrAlreadyStarted)
	}
	op.started = true

	start := time.Now()

	if op.scope.beginJoin() {
		op.scope.joinLatency.Record(time.Since(start).Seconds())
		op.r.SetValue(struct{}{})
		return
	}

	go func() {
		<-op.scope.joinCh
		op.scope.joinLatency.Record(time.Since(start).Seconds())
		op.r.SetValue(struct{}{})
	}()
}
