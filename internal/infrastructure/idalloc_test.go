package infrastructure

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterAllocator_Sequential(t *testing.T) {
	ids := NewCounterAllocator(0)
	assert.Equal(t, 1, ids.NextNotifyID())
	assert.Equal(t, 2, ids.NextNotifyID())
	assert.Equal(t, 3, ids.NextNotifyID())
}

func TestCounterAllocator_SeededFloor(t *testing.T) {
	ids := NewCounterAllocator(41)
	assert.Equal(t, 42, ids.NextNotifyID())
}

func TestCounterAllocator_UniqueUnderConcurrency(t *testing.T) {
	ids := NewCounterAllocator(0)

	const n = 100
	out := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- ids.NextNotifyID()
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[int]bool, n)
	for id := range out {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
