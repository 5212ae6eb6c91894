package iotstream

import (
	"sync/atomic"
	"time"

	"github.com/ecotrack/iotstream/codec"
	"github.com/ecotrack/iotstream/codec/stdjson"
	"github.com/ecotrack/iotstream/internal/sync"
	"github.com/ecotrack/iotstream/transport"
	"github.com/ecotrack/iotstream/transport/websocket"
	"github.com/google/uuid"
	"github.com/tomruk/yeast"
)

type (
	ClientConfig struct {
		// Origin of the page the stream belongs to, such as https://dash.example.
		// The scheme decides between ws and wss, the host is used as is.
		//
		// Default: http://localhost
		Origin string

		// Should we disallow reconnections?
		// Default: false (allow reconnections)
		NoReconnection bool

		// How many reconnection attempts should we try before giving up?
		// Default: 0 (DefaultReconnectionAttempts)
		ReconnectionAttempts uint32

		// The delay before the first reconnection attempt.
		// The nth attempt waits n times this.
		//
		// Default: 1 second
		ReconnectionDelay *time.Duration

		// Serializer used to decode incoming frames and encode sent values.
		// Default: encoding/json
		Serializer codec.Serializer

		// Dialer that creates a transport for each connection.
		// Default: websocket.Dialer with default options.
		Dialer transport.Dialer

		// For debugging purposes. Leave it nil if it is of no use.
		Debugger Debugger

		// Handlers to register on creation. Any of them may be nil.
		Callbacks Callbacks
	}

	Callbacks struct {
		OnOpen             OpenFunc
		OnMessage          MessageFunc
		OnError            ErrorFunc
		OnClose            CloseFunc
		OnReconnectAttempt ReconnectAttemptFunc
		OnReconnectFailed  ReconnectFailedFunc
	}

	// Client keeps one logical subscription to a stream endpoint alive,
	// reconnecting with a linearly growing delay when the connection drops.
	//
	// A Client never panics because of the connection and never returns
	// errors from Connect, Send or Disconnect: failures go to the error
	// and close handlers.
	Client struct {
		id         string
		path       string
		origin     string
		serializer codec.Serializer
		dialer     transport.Dialer
		debug      Debugger

		backoff   *backoff
		afterFunc func(d time.Duration, f func()) timer

		mu        sync.Mutex
		state     State
		transport transport.Transport
		// Incremented for every transport. Callbacks carrying an older epoch are ignored.
		epoch uint64
		// Set by Disconnect, cleared by Connect.
		skipReconnect bool
		timer         timer
		// Incremented whenever a pending timer becomes obsolete.
		timerGen uint64

		// Handlers only run from here.
		events eventQueue

		epochID atomic.Value
		yeaster *yeast.Yeaster

		openHandlers             *handlerStore[OpenFunc]
		messageHandlers          *handlerStore[MessageFunc]
		errorHandlers            *handlerStore[ErrorFunc]
		closeHandlers            *handlerStore[CloseFunc]
		reconnectAttemptHandlers *handlerStore[ReconnectAttemptFunc]
		reconnectFailedHandlers  *handlerStore[ReconnectFailedFunc]
	}

	timer interface {
		Stop() bool
	}
)

const (
	DefaultReconnectionAttempts uint32 = 10
	DefaultReconnectionDelay           = 1 * time.Second
)

// NewClient creates a client for the stream at path. It doesn't connect: call Connect.
//
// path is resolved against config.Origin, see ResolveURL.
func NewClient(path string, config *ClientConfig) *Client {
	if config == nil {
		config = new(ClientConfig)
	} else {
		// User can modify the config. We copy the config here in order to avoid problems.
		c := *config
		config = &c
	}

	c := &Client{
		id:         uuid.New().String(),
		path:       path,
		origin:     config.Origin,
		serializer: config.Serializer,
		dialer:     config.Dialer,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		yeaster: yeast.New(),

		openHandlers:             newHandlerStore[OpenFunc](),
		messageHandlers:          newHandlerStore[MessageFunc](),
		errorHandlers:            newHandlerStore[ErrorFunc](),
		closeHandlers:            newHandlerStore[CloseFunc](),
		reconnectAttemptHandlers: newHandlerStore[ReconnectAttemptFunc](),
		reconnectFailedHandlers:  newHandlerStore[ReconnectFailedFunc](),
	}
	c.epochID.Store("")

	if c.origin == "" {
		c.origin = DefaultOrigin
	}
	if c.serializer == nil {
		c.serializer = stdjson.New()
	}
	if c.dialer == nil {
		c.dialer = new(websocket.Dialer)
	}

	if config.Debugger != nil {
		c.debug = config.Debugger
	} else {
		c.debug = NewNoopDebugger()
	}
	c.debug = c.debug.WithDynamicContext("[iotstream] Client "+c.id+" "+path, func() string {
		return c.epochID.Load().(string)
	})

	attempts := config.ReconnectionAttempts
	if attempts == 0 {
		attempts = DefaultReconnectionAttempts
	}
	if config.NoReconnection {
		attempts = 0
	}
	delay := DefaultReconnectionDelay
	if config.ReconnectionDelay != nil {
		delay = *config.ReconnectionDelay
	}
	c.backoff = newBackoff(delay, attempts)

	cb := config.Callbacks
	if cb.OnOpen != nil {
		c.OnOpen(cb.OnOpen)
	}
	if cb.OnMessage != nil {
		c.OnMessage(cb.OnMessage)
	}
	if cb.OnError != nil {
		c.OnError(cb.OnError)
	}
	if cb.OnClose != nil {
		c.OnClose(cb.OnClose)
	}
	if cb.OnReconnectAttempt != nil {
		c.OnReconnectAttempt(cb.OnReconnectAttempt)
	}
	if cb.OnReconnectFailed != nil {
		c.OnReconnectFailed(cb.OnReconnectFailed)
	}
	return c
}

// ID is a random identifier of this client, used in logs.
func (c *Client) ID() string { return c.id }

func (c *Client) Path() string { return c.path }

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the number of reconnection attempts made since the connection was last open.
func (c *Client) Attempts() uint32 { return c.backoff.attempts() }

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport != nil && c.state == StateOpen
}
