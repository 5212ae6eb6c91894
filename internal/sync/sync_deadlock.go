//go:build iotstream_deadlock

package sync

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

// Only the lock types are instrumented.
type (
	Mutex     = deadlock.Mutex
	RWMutex   = deadlock.RWMutex
	Once      = sync.Once
	WaitGroup = sync.WaitGroup
)
