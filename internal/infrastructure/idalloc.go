package infrastructure

import "sync/atomic"

// CounterAllocator hands out notification ids from a monotonically
// increasing counter. Seed it with the store's recorded high-water mark
// so ids stay unique across restarts.
type CounterAllocator struct {
	last int64
}

// NewCounterAllocator creates an allocator whose first id is floor+1
func NewCounterAllocator(floor int) *CounterAllocator {
	return &CounterAllocator{last: int64(floor)}
}

// NextNotifyID returns a fresh unique id
func (a *CounterAllocator) NextNotifyID() int {
	return int(atomic.AddInt64(&a.last, 1))
}
