// Package pool provides pluggable object pools: the allocator hooks behind
// future.Spawn's operation headers and scheduler.PoolScheduler's admission
// tokens.
package pool

// Pool hands out reusable objects. Implementations decide whether Get
// recycles values returned through Put or allocates fresh ones.
type Pool interface {
	// Get returns an object from the pool, allocating one if none is free.
	Get() interface{}

	// Put returns an object to the pool for reuse.
	Put(interface{})
}
