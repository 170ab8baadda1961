package pool

import "sync"

// NewDynamic returns an unbounded pool backed by sync.Pool: Get recycles a
// value previously returned through Put, or calls newFn when none is held.
// Idle values may be reclaimed by the garbage collector between uses.
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
