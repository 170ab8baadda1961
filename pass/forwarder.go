package pass

import "github.com/ygrebnov/sender"

// completionKind tags which of the three channels a completionForwarder
// will eventually deliver.
type completionKind int

const (
	kindValue completionKind = iota
	kindError
	kindDone
)

// completionForwarder defers delivering a recorded completion until the
// receiver's declared scheduler (if any) has run, so that a rendezvous
// arriving on the "wrong" goroutine still surfaces on the side the
// receiver asked for. If the receiver declares no scheduler, the completion
// is delivered immediately on the calling goroutine instead. If scheduling
// itself fails, the receiver gets SetError with the scheduling error in
// place of the recorded completion; if the scheduler completes with done,
// the recorded completion is still delivered.
type completionForwarder[T any] struct {
	receiver sender.Receiver[T]
	kind     completionKind
	value    T
	err      error
}

// schedulerLike is the minimal shape a scheduler.Scheduler satisfies; kept
// local (instead of importing package scheduler) so pass stays decoupled
// from any particular scheduler implementation, consistent with how a
// receiver's scheduler query is documented as duck-typed.
type schedulerLike interface {
	Schedule() sender.Sender[struct{}]
}

func newValueForwarder[T any](r sender.Receiver[T], v T) *completionForwarder[T] {
	return &completionForwarder[T]{receiver: r, kind: kindValue, value: v}
}

func newErrorForwarder[T any](r sender.Receiver[T], err error) *completionForwarder[T] {
	return &completionForwarder[T]{receiver: r, kind: kindError, err: err}
}

func newDoneForwarder[T any](r sender.Receiver[T]) *completionForwarder[T] {
	return &completionForwarder[T]{receiver: r, kind: kindDone}
}

// Run delivers the recorded completion, hopping onto the receiver's
// scheduler first if one was declared.
func (f *completionForwarder[T]) Run() {
	schVal, ok := f.receiver.Query(sender.SchedulerKey)
	if !ok {
		f.deliverNow()
		return
	}
	sch, ok := schVal.(schedulerLike)
	if !ok {
		f.deliverNow()
		return
	}

	op := sch.Schedule().Connect(&sender.FuncReceiver[struct{}]{
		OnValue: func(struct{}) { f.deliverNow() },
		OnError: func(err error) { f.receiver.SetError(err) },
		OnDone:  func() { f.deliverNow() },
	})
	op.Start()
}

func (f *completionForwarder[T]) deliverNow() {
	switch f.kind {
	case kindValue:
		f.receiver.SetValue(f.value)
	case kindError:
		f.receiver.SetError(f.err)
	default:
		f.receiver.SetDone()
	}
}
