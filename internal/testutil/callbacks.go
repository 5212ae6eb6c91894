package testutil

import (
	"testing"
	"time"

	"github.com/ecotrack/iotstream/transport"
)

// CallbackRecorder turns transport callbacks into channels,
// for testing real transports against a server.
//
// Callbacks never block. One that finds its channel full is reported
// as a test error and its value is dropped.
type CallbackRecorder struct {
	Opened chan struct{}
	Frames chan []byte
	Closed chan error

	errorf func(format string, args ...any)
}

func NewCallbackRecorder(t *testing.T) *CallbackRecorder {
	return &CallbackRecorder{
		Opened: make(chan struct{}, 1),
		Frames: make(chan []byte, 100),
		Closed: make(chan error, 10),
		errorf: t.Errorf,
	}
}

func (r *CallbackRecorder) Callbacks() *transport.Callbacks {
	return &transport.Callbacks{
		OnOpen: func() {
			select {
			case r.Opened <- struct{}{}:
			default:
				r.errorf("CallbackRecorder: OnOpen called again before the previous call was received")
			}
		},
		OnFrame: func(data []byte) {
			select {
			case r.Frames <- data:
			default:
				r.errorf("CallbackRecorder: %d frames not received, dropping %q", cap(r.Frames), data)
			}
		},
		OnClose: func(_ string, err error) {
			select {
			case r.Closed <- err:
			default:
				r.errorf("CallbackRecorder: %d closes not received, dropping: %v", cap(r.Closed), err)
			}
		},
	}
}

func (r *CallbackRecorder) WaitOpen(t *testing.T) {
	t.Helper()
	select {
	case <-r.Opened:
	case err := <-r.Closed:
		t.Fatalf("transport closed before opening: %v", err)
	case <-time.After(DefaultTestWaitTimeout):
		t.Fatal("timeout waiting for the transport to open")
	}
}

func (r *CallbackRecorder) WaitFrame(t *testing.T) []byte {
	t.Helper()
	select {
	case data := <-r.Frames:
		return data
	case <-time.After(DefaultTestWaitTimeout):
		t.Fatal("timeout waiting for a frame")
		return nil
	}
}

func (r *CallbackRecorder) WaitClose(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.Closed:
		return err
	case <-time.After(DefaultTestWaitTimeout):
		t.Fatal("timeout waiting for the transport to close")
		return nil
	}
}

// NoMoreCloses fails the test if OnClose is called again within d.
func (r *CallbackRecorder) NoMoreCloses(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case err := <-r.Closed:
		t.Fatalf("OnClose called more than once, second time with: %v", err)
	case <-time.After(d):
	}
}
