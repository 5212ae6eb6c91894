// Package gorilla is a stream transport built on github.com/gorilla/websocket,
// for deployments that need gorilla's dialer (proxies, custom net dial, cookie jars).
package gorilla

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ecotrack/iotstream/internal/sync"
	"github.com/ecotrack/iotstream/transport"
	"github.com/gorilla/websocket"
)

const DefaultWriteTimeout = 10 * time.Second

type Dialer struct {
	// Default: websocket.DefaultDialer
	Dialer *websocket.Dialer

	// Request headers sent with the handshake (cookies, auth).
	RequestHeader http.Header

	// Maximum size of an incoming frame in bytes. 0 means no limit.
	ReadLimit int64

	// Default: DefaultWriteTimeout
	WriteTimeout time.Duration
}

var _ transport.Dialer = (*Dialer)(nil)

func (d *Dialer) Name() string { return "gorilla" }

func (d *Dialer) NewTransport(u *url.URL, callbacks *transport.Callbacks) (transport.Transport, error) {
	err := transport.CheckScheme(u, "ws", "wss")
	if err != nil {
		return nil, err
	}
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	writeTimeout := d.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ClientTransport{
		url:           u.String(),
		dialer:        dialer,
		requestHeader: d.RequestHeader.Clone(),
		readLimit:     d.ReadLimit,
		writeTimeout:  writeTimeout,
		callbacks:     callbacks,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

type ClientTransport struct {
	url           string
	dialer        *websocket.Dialer
	requestHeader http.Header
	readLimit     int64
	writeTimeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	// WriteMessage must not be called concurrently.
	writeMu sync.Mutex

	callbacks *transport.Callbacks
	once      sync.Once
}

func (t *ClientTransport) Name() string { return "gorilla" }

func (t *ClientTransport) Run() {
	conn, _, err := t.dialer.DialContext(t.ctx, t.url, t.requestHeader)
	if err != nil {
		t.close(err)
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return
	}
	t.conn = conn
	t.mu.Unlock()

	if t.readLimit > 0 {
		conn.SetReadLimit(t.readLimit)
	}
	t.callbacks.OnOpen()

	for {
		_, data, err := conn.ReadMessage()
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

	t.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	err := conn.WriteMessage(websocket.TextMessage, data)
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

		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			err = nil
		}
		defer t.callbacks.OnClose(t.Name(), err)

		t.cancel()
		if conn == nil {
			return
		}
		// WriteControl may be called concurrently with WriteMessage.
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(t.writeTimeout),
		)
		conn.Close()
	})
}

func (t *ClientTransport) Close() {
	t.close(nil)
}
