package sender

import "sync"

// StopSource owns a mutex-guarded registry of stop callbacks and a one-shot
// "stop requested" flag. It is the explicit, written-out equivalent of
// context.AfterFunc's reentrancy guarantee: a callback may itself complete
// the very operation that is tearing down the callback list it was invoked
// from, and that teardown must not deadlock or double-invoke.
type StopSource struct {
	mu        sync.Mutex
	requested bool
	callbacks map[int]func()
	nextID    int
	running   int // id of the callback currently executing, or -1
}

// NewStopSource returns a ready-to-use, not-yet-requested StopSource.
func NewStopSource() *StopSource {
	return &StopSource{callbacks: make(map[int]func()), running: -1}
}

// Token returns the StopToken view of this source.
func (s *StopSource) Token() StopToken {
	return StopToken{source: s}
}

// RequestStop flips the one-shot flag and invokes every currently registered
// callback. Callbacks registered concurrently with (or by) a running
// callback are invoked as soon as they are added, matching the "request
// already happened" branch of Register below. RequestStop is idempotent:
// only the first call runs callbacks.
func (s *StopSource) RequestStop() {
	s.mu.Lock()
	if s.requested {
		s.mu.Unlock()
		return
	}
	s.requested = true
	pending := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for id, cb := range pending {
		s.runCallback(id, cb)
	}
}

func (s *StopSource) runCallback(id int, cb func()) {
	s.mu.Lock()
	s.running = id
	s.mu.Unlock()

	cb()

	s.mu.Lock()
	s.running = -1
	s.mu.Unlock()
}

// StopRequested reports whether RequestStop has been called.
func (s *StopSource) StopRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested
}

// Register adds cb to the callback list. If a stop has already been
// requested, cb runs synchronously before Register returns. The returned
// unregister removes cb; calling unregister from within cb itself (a
// callback completing the operation that then tears down its own
// registration) is safe and never blocks.
func (s *StopSource) Register(cb func()) (unregister func()) {
	s.mu.Lock()
	if s.requested {
		s.mu.Unlock()
		cb()
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.callbacks[id] = cb
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.running == id {
			// Reentrant teardown: the callback is removing itself (or being
			// removed by whatever it just completed) while it is still the
			// one executing. Deleting the map entry is enough; runCallback
			// clears "running" once cb() returns.
			delete(s.callbacks, id)
			return
		}
		if s.callbacks != nil {
			delete(s.callbacks, id)
		}
	}
}

// StopToken is the read-only, queryable handle to a StopSource, obtained by
// receivers through Receiver.Query(StopTokenKey).
type StopToken struct {
	source *StopSource
}

// StopPossible reports whether a stop request can ever be observed through
// this token. A zero-value StopToken (no source) can never stop; operations
// may use this to skip registering a callback entirely.
func (t StopToken) StopPossible() bool {
	return t.source != nil
}

// StopRequested reports whether the underlying source has been asked to
// stop. A zero-value StopToken (no source) never reports a stop request.
func (t StopToken) StopRequested() bool {
	if t.source == nil {
		return false
	}
	return t.source.StopRequested()
}

// Register installs cb against the underlying source, per StopSource.Register.
// A zero-value StopToken never invokes cb and returns a no-op unregister:
// no stop source behaves like "never stops".
func (t StopToken) Register(cb func()) (unregister func()) {
	if t.source == nil {
		return func() {}
	}
	return t.source.Register(cb)
}
