// Package websocket is the default stream transport, built on nhooyr.io/websocket.
package websocket

import (
	"context"
	"net/url"
	"time"

	"github.com/ecotrack/iotstream/internal/sync"
	"github.com/ecotrack/iotstream/transport"
	"nhooyr.io/websocket"
)

const DefaultHandshakeTimeout = 10 * time.Second

type Dialer struct {
	// Passed to websocket.Dial as is. Can be nil.
	DialOptions *websocket.DialOptions

	// Maximum size of an incoming frame in bytes.
	// Default: 0 (the library default of 32 KiB)
	ReadLimit int64

	// Default: DefaultHandshakeTimeout
	HandshakeTimeout time.Duration
}

var _ transport.Dialer = (*Dialer)(nil)

func (d *Dialer) Name() string { return "websocket" }

func (d *Dialer) NewTransport(u *url.URL, callbacks *transport.Callbacks) (transport.Transport, error) {
	err := transport.CheckScheme(u, "ws", "wss")
	if err != nil {
		return nil, err
	}
	handshakeTimeout := d.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ClientTransport{
		url:              u.String(),
		dialOptions:      d.DialOptions,
		readLimit:        d.ReadLimit,
		handshakeTimeout: handshakeTimeout,
		callbacks:        callbacks,
		ctx:              ctx,
		cancel:           cancel,
	}, nil
}

type ClientTransport struct {
	url              string
	dialOptions      *websocket.DialOptions
	readLimit        int64
	handshakeTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	conn    *websocket.Conn
	closed  bool
	writeMu sync.Mutex

	callbacks *transport.Callbacks
	once      sync.Once
}

func (t *ClientTransport) Name() string { return "websocket" }

func (t *ClientTransport) Run() {
	dialCtx, cancel := context.WithTimeout(t.ctx, t.handshakeTimeout)
	conn, _, err := websocket.Dial(dialCtx, t.url, t.dialOptions)
	cancel()
	if err != nil {
		t.close(err)
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}
	t.conn = conn
	t.mu.Unlock()

	if t.readLimit > 0 {
		conn.SetReadLimit(t.readLimit)
	}
	t.callbacks.OnOpen()

	for {
		_, data, err := conn.Read(t.ctx)
		if err != nil {
			t.close(err)
			return
		}
		t.callbacks.OnFrame(data)
	}
}

func (t *ClientTransport) Send(data []byte) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return
	}

	// Write must not be called concurrently.
	t.writeMu.Lock()
	err := conn.Write(t.ctx, websocket.MessageText, data)
	t.writeMu.Unlock()
	if err != nil {
		t.close(err)
	}
}

func (t *ClientTransport) close(err error) {
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		conn := t.conn
		t.mu.Unlock()

		defer t.callbacks.OnClose(t.Name(), normalizeCloseError(err))

		if conn == nil {
			t.cancel()
			return
		}
		// The closing handshake waits for the peer.
		go func() {
			conn.Close(websocket.StatusNormalClosure, "")
			t.cancel()
		}()
	})
}

func (t *ClientTransport) Close() {
	t.close(nil)
}
