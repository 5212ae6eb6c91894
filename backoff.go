package iotstream

import (
	"math"
	"time"

	"github.com/ecotrack/iotstream/internal/sync"
)

// backoff grows linearly: the nth attempt waits n*base.
type backoff struct {
	base time.Duration
	max  uint32

	numAttempts   uint32
	numAttemptsMu sync.Mutex
}

func newBackoff(base time.Duration, max uint32) *backoff {
	return &backoff{
		base: base,
		max:  max,
	}
}

func (b *backoff) attempts() uint32 {
	b.numAttemptsMu.Lock()
	attempts := b.numAttempts
	b.numAttemptsMu.Unlock()
	return attempts
}

func (b *backoff) exhausted() bool {
	return b.attempts() >= b.max
}

// duration counts a new attempt and returns the delay before it.
func (b *backoff) duration() time.Duration {
	b.numAttemptsMu.Lock()
	b.numAttempts++
	n := b.numAttempts
	b.numAttemptsMu.Unlock()

	if b.base > 0 && int64(n) > math.MaxInt64/int64(b.base) {
		return time.Duration(math.MaxInt64)
	}
	return b.base * time.Duration(n)
}

func (b *backoff) reset() {
	b.numAttemptsMu.Lock()
	b.numAttempts = 0
	b.numAttemptsMu.Unlock()
}
