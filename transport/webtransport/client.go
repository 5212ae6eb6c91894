// Package webtransport carries stream frames over a single bidirectional
// WebTransport (HTTP/3) stream.
package webtransport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ecotrack/iotstream/internal/sync"
	"github.com/ecotrack/iotstream/transport"
	"github.com/quic-go/webtransport-go"
)

const DefaultHandshakeTimeout = 10 * time.Second

type Dialer struct {
	// Default: a zero webtransport.Dialer
	Dialer *webtransport.Dialer

	RequestHeader http.Header

	// Default: DefaultMaxFrameSize
	MaxFrameSize int

	// Default: DefaultHandshakeTimeout
	HandshakeTimeout time.Duration
}

var _ transport.Dialer = (*Dialer)(nil)

func (d *Dialer) Name() string { return "webtransport" }

func (d *Dialer) NewTransport(u *url.URL, callbacks *transport.Callbacks) (transport.Transport, error) {
	err := transport.CheckScheme(u, "ws", "wss", "http", "https")
	if err != nil {
		return nil, err
	}
	target := *u
	switch target.Scheme {
	case "wss":
		target.Scheme = "https"
	case "ws":
		target.Scheme = "http"
	}

	dialer := d.Dialer
	if dialer == nil {
		dialer = new(webtransport.Dialer)
	}
	maxFrameSize := d.MaxFrameSize
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	handshakeTimeout := d.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ClientTransport{
		url:              target.String(),
		dialer:           dialer,
		requestHeader:    d.RequestHeader.Clone(),
		maxFrameSize:     maxFrameSize,
		handshakeTimeout: handshakeTimeout,
		callbacks:        callbacks,
		ctx:              ctx,
		cancel:           cancel,
	}, nil
}

type ClientTransport struct {
	url              string
	dialer           *webtransport.Dialer
	requestHeader    http.Header
	maxFrameSize     int
	handshakeTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	session *webtransport.Session
	stream  webtransport.Stream
	closed  bool
	sendMu  sync.Mutex

	callbacks *transport.Callbacks
	once      sync.Once
}

func (t *ClientTransport) Name() string { return "webtransport" }

func (t *ClientTransport) Run() {
	session, stream, err := t.handshake()
	if err != nil {
		t.close(err)
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		session.CloseWithError(0, "")
		return
	}
	t.session = session
	t.stream = stream
	t.mu.Unlock()

	t.callbacks.OnOpen()

	for {
		data, err := readFrame(stream, t.maxFrameSize)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			t.close(err)
			return
		}
		t.callbacks.OnFrame(data)
	}
}

func (t *ClientTransport) handshake() (*webtransport.Session, webtransport.Stream, error) {
	ctx, cancel := context.WithTimeout(t.ctx, t.handshakeTimeout)
	defer cancel()

	_, session, err := t.dialer.Dial(ctx, t.url, t.requestHeader)
	if err != nil {
		return nil, nil, err
	}
	stream, err := session.OpenStream()
	if err != nil {
		session.CloseWithError(0, "")
		return nil, nil, err
	}
	return session, stream, nil
}

func (t *ClientTransport) Send(data []byte) {
	t.mu.Lock()
	stream := t.stream
	t.mu.Unlock()
	if stream == nil {
		return
	}

	t.sendMu.Lock()
	err := writeFrame(stream, data)
	t.sendMu.Unlock()
	if err != nil {
		t.close(err)
	}
}

func (t *ClientTransport) close(err error) {
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		session := t.session
		stream := t.stream
		t.mu.Unlock()

		defer t.callbacks.OnClose(t.Name(), err)

		t.cancel()
		if stream != nil {
			stream.Close()
		}
		if session != nil {
			session.CloseWithError(0, "")
		}
	})
}

func (t *ClientTransport) Close() {
	t.close(nil)
}
