package iotstream

import "github.com/ecotrack/iotstream/internal/sync"

// eventQueue runs the client's events one at a time, in the order they were added.
//
// There is no goroutine of its own: whoever adds an event to an idle queue
// runs it, and keeps running whatever other goroutines add meanwhile.
// An event added from inside a running event (a handler calling Disconnect)
// runs right after the current one returns.
type eventQueue struct {
	mu      sync.Mutex
	events  []func()
	running bool
}

func (q *eventQueue) add(event func()) {
	q.mu.Lock()
	q.events = append(q.events, event)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true

	for len(q.events) != 0 {
		next := q.events[0]
		q.events[0] = nil
		q.events = q.events[1:]
		q.mu.Unlock()
		next()
		q.mu.Lock()
	}

	q.running = false
	q.mu.Unlock()
}
