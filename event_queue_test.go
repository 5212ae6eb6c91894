package iotstream

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventQueueRunsInOrder(t *testing.T) {
	var q eventQueue
	var order []int

	q.add(func() {
		order = append(order, 1)
		q.add(func() {
			order = append(order, 3)
			q.add(func() { order = append(order, 4) })
		})
		// Added from inside an event: runs after this one returns.
		assert.Equal(t, []int{1}, order)
		order = append(order, 2)
	})
	assert.Equal(t, []int{1, 2, 3, 4}, order)

	q.add(func() { order = append(order, 5) })
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestEventQueueConcurrentAdd(t *testing.T) {
	const (
		goroutines = 50
		perG       = 100
	)
	var (
		q        eventQueue
		inFlight atomic.Int32
		overlap  atomic.Bool
		ran      atomic.Int32
		wg       sync.WaitGroup
	)
	event := func() {
		if inFlight.Add(1) != 1 {
			overlap.Store(true)
		}
		ran.Add(1)
		inFlight.Add(-1)
	}

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				q.add(event)
			}
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load(), "events ran concurrently")
	assert.Equal(t, int32(goroutines*perG), ran.Load())
}
