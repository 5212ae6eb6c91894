package testutil

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRecorderOverflow(t *testing.T) {
	rec := NewCallbackRecorder(t)
	var reported []string
	rec.errorf = func(format string, args ...any) {
		reported = append(reported, fmt.Sprintf(format, args...))
	}
	callbacks := rec.Callbacks()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= cap(rec.Frames); i++ {
			callbacks.OnFrame([]byte(fmt.Sprint(i)))
		}
		callbacks.OnOpen()
		callbacks.OnOpen()
		for i := 0; i <= cap(rec.Closed); i++ {
			callbacks.OnClose("fake", errors.New("closed"))
		}
	}()
	select {
	case <-done:
	case <-time.After(DefaultTestWaitTimeout):
		t.Fatal("a callback blocked on a full channel")
	}

	require.Len(t, reported, 3)
	assert.Contains(t, reported[0], `dropping "100"`)
	assert.Contains(t, reported[1], "OnOpen")
	assert.Contains(t, reported[2], "closes not received")

	// Nothing already buffered was lost.
	assert.Equal(t, []byte("0"), rec.WaitFrame(t))
	assert.Len(t, rec.Frames, cap(rec.Frames)-1)
	assert.Len(t, rec.Opened, 1)
	assert.Len(t, rec.Closed, cap(rec.Closed))
}
