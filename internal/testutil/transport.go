package testutil

import (
	"net/url"
	"time"

	"github.com/ecotrack/iotstream/internal/sync"
	"github.com/ecotrack/iotstream/transport"
)

// FakeDialer hands out FakeTransports. Tests drive them by hand:
// nothing happens on the "wire" unless the test calls Open, Frame, Fail or Close.
type FakeDialer struct {
	mu         sync.Mutex
	err        error
	transports []*FakeTransport
}

var _ transport.Dialer = (*FakeDialer)(nil)

func NewFakeDialer() *FakeDialer { return new(FakeDialer) }

func (d *FakeDialer) Name() string { return "fake" }

// SetError makes subsequent NewTransport calls fail with err. Pass nil to undo.
func (d *FakeDialer) SetError(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

func (d *FakeDialer) NewTransport(u *url.URL, callbacks *transport.Callbacks) (transport.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	t := &FakeTransport{
		URL:       u.String(),
		callbacks: callbacks,
		running:   make(chan struct{}),
	}
	d.transports = append(d.transports, t)
	return t, nil
}

// Count returns how many transports were created so far.
func (d *FakeDialer) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transports)
}

// Last returns the most recently created transport, or nil.
func (d *FakeDialer) Last() *FakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.transports) == 0 {
		return nil
	}
	return d.transports[len(d.transports)-1]
}

type FakeTransport struct {
	URL string

	callbacks *transport.Callbacks
	running   chan struct{}
	runOnce   sync.Once
	closeOnce sync.Once

	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (t *FakeTransport) Name() string { return "fake" }

func (t *FakeTransport) Run() {
	t.runOnce.Do(func() { close(t.running) })
}

// WaitRunning reports whether Run was called within timeout.
func (t *FakeTransport) WaitRunning(timeout time.Duration) bool {
	select {
	case <-t.running:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (t *FakeTransport) Send(data []byte) {
	t.mu.Lock()
	t.sent = append(t.sent, data)
	t.mu.Unlock()
}

func (t *FakeTransport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte(nil), t.sent...)
}

// Closed reports whether Close was called by the client.
func (t *FakeTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *FakeTransport) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.closeOnce.Do(func() { t.callbacks.OnClose(t.Name(), nil) })
}

// Open simulates a successful handshake.
func (t *FakeTransport) Open() { t.callbacks.OnOpen() }

// Frame simulates an incoming frame.
func (t *FakeTransport) Frame(data string) { t.callbacks.OnFrame([]byte(data)) }

// Fail simulates the connection dropping with err (nil for a clean close by the server).
func (t *FakeTransport) Fail(err error) {
	t.closeOnce.Do(func() { t.callbacks.OnClose(t.Name(), err) })
}
