package testutil

import (
	"time"

	"github.com/ecotrack/iotstream/internal/sync"
)

// FakeScheduler records timers instead of running them.
// Fire runs the oldest pending timer on the calling goroutine.
type FakeScheduler struct {
	mu     sync.Mutex
	timers []*FakeTimer
}

func NewFakeScheduler() *FakeScheduler { return new(FakeScheduler) }

type FakeTimer struct {
	Delay time.Duration

	s       *FakeScheduler
	f       func()
	stopped bool
	fired   bool
}

func (t *FakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) *FakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &FakeTimer{Delay: d, s: s, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Delays returns the delay of every timer scheduled so far, in order.
func (s *FakeScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	delays := make([]time.Duration, len(s.timers))
	for i, t := range s.timers {
		delays[i] = t.Delay
	}
	return delays
}

// Pending returns the number of timers that were neither stopped nor fired.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs the oldest pending timer. It returns false if there was none.
func (s *FakeScheduler) Fire() bool {
	s.mu.Lock()
	var next *FakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			next = t
			break
		}
	}
	if next == nil {
		s.mu.Unlock()
		return false
	}
	next.fired = true
	s.mu.Unlock()

	next.f()
	return true
}

// FireStopped runs a timer that was stopped, as if Stop lost the race against it.
// It returns false if there was no stopped timer.
func (s *FakeScheduler) FireStopped() bool {
	s.mu.Lock()
	var next *FakeTimer
	for _, t := range s.timers {
		if t.stopped && !t.fired {
			next = t
			break
		}
	}
	if next == nil {
		s.mu.Unlock()
		return false
	}
	next.fired = true
	s.mu.Unlock()

	next.f()
	return true
}
