package sender

// Just, JustFrom, JustError, and JustDone are minimal leaf senders: just
// enough to connect a receiver to a value without building a full algorithm
// library (leaf algorithms are an explicit non-goal of this package; these
// four exist only so the protocol core and the scope/future/pass packages
// built on it have something concrete to exercise and test against).

type justSender[T any] struct {
	value T
}

// Just returns a sender that completes with value as soon as it is started,
// on the calling goroutine (BlockingAlwaysInline).
func Just[T any](value T) Sender[T] {
	return justSender[T]{value: value}
}

func (s justSender[T]) Connect(r Receiver[T]) OperationState {
	return &justOp[T]{r: r, value: s.value}
}

func (justSender[T]) Blocking() BlockingKind { return BlockingAlwaysInline }

type justOp[T any] struct {
	r       Receiver[T]
	value   T
	started bool
}

func (op *justOp[T]) Start() {
	if op.started {
		panic(ErrAlreadyStarted)
	}
	op.started = true
	op.r.SetValue(op.value)
}

type justFromSender[T any] struct {
	fn func() (T, error)
}

// JustFrom defers calling fn until Start, forwarding its result as a value
// completion or its error as an error completion.
func JustFrom[T any](fn func() (T, error)) Sender[T] {
	return justFromSender[T]{fn: fn}
}

func (s justFromSender[T]) Connect(r Receiver[T]) OperationState {
	return &justFromOp[T]{r: r, fn: s.fn}
}

func (justFromSender[T]) Blocking() BlockingKind { return BlockingAlwaysInline }

type justFromOp[T any] struct {
	r       Receiver[T]
	fn      func() (T, error)
	started bool
}

func (op *justFromOp[T]) Start() {
	if op.started {
		panic(ErrAlreadyStarted)
	}
	op.started = true
	v, err := op.fn()
	if err != nil {
		op.r.SetError(err)
		return
	}
	op.r.SetValue(v)
}

type justErrorSender[T any] struct {
	err error
}

// JustError returns a sender that always completes with err.
func JustError[T any](err error) Sender[T] {
	return justErrorSender[T]{err: err}
}

func (s justErrorSender[T]) Connect(r Receiver[T]) OperationState {
	return &justErrorOp[T]{r: r, err: s.err}
}

func (justErrorSender[T]) Blocking() BlockingKind { return BlockingAlwaysInline }

type justErrorOp[T any] struct {
	r       Receiver[T]
	err     error
	started bool
}

func (op *justErrorOp[T]) Start() {
	if op.started {
		panic(ErrAlreadyStarted)
	}
	op.started = true
	op.r.SetError(op.err)
}

type justDoneSender[T any] struct{}

// JustDone returns a sender that always completes with SetDone.
func JustDone[T any]() Sender[T] {
	return justDoneSender[T]{}
}

func (s justDoneSender[T]) Connect(r Receiver[T]) OperationState {
	return &justDoneOp[T]{r: r}
}

func (justDoneSender[T]) Blocking() BlockingKind { return BlockingAlwaysInline }

type justDoneOp[T any] struct {
	r       Receiver[T]
	started bool
}

func (op *justDoneOp[T]) Start() {
	if op.started {
		panic(ErrAlreadyStarted)
	}
	op.started = true
	op.r.SetDone()
}
