package pool

// fixed caps the total number of values ever created at capacity: every
// newFn call first takes one of the capacity slots in all. Get prefers a
// recycled value and calls newFn only while a slot is free; once the cap
// is reached it blocks until Put hands one back. The buf channel absorbs
// values returned while available is full, so Put never blocks.
type fixed struct {
	available chan interface{}
	all       chan interface{}
	buf       chan interface{}
	newFn     func() interface{}
}

// NewFixed returns a recycling pool bounded at capacity total values. A
// capacity of zero yields a pool whose Get blocks forever; callers wanting
// admission control without recycling should use NewSemaphoreBounded
// instead.
func NewFixed(capacity uint, newFn func() interface{}) Pool {
	return &fixed{
		available: make(chan interface{}, capacity),
		all:       make(chan interface{}, capacity),
		buf:       make(chan interface{}, 1024),
		newFn:     newFn,
	}
}

func (p *fixed) Get() interface{} {
	select {
	case el := <-p.available:
		return el

	case el := <-p.buf:
		return el

	default:
		select {
		case p.all <- struct{}{}:
			return p.newFn()
		case el := <-p.available:
			return el
		case el := <-p.buf:
			return el
		}
	}
}

func (p *fixed) Put(el interface{}) {
	select {
	case p.available <- el:
	case p.buf <- el:
	default:
	}
}
