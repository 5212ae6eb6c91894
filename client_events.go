package iotstream

type (
	OpenFunc             func()
	MessageFunc          func(msg *Message)
	ErrorFunc            func(err error)
	CloseFunc            func(reason Reason, err error)
	ReconnectAttemptFunc func(attempt uint32)
	ReconnectFailedFunc  func()
)

// Handlers are called one at a time, in the order the events happened.
// They normally run on the goroutine that produced the event (the transport's
// reader or the backoff timer). If another goroutine is already delivering an
// event, the new one is delivered by that goroutine right after.
//
// Every On and Once method returns a function that unregisters the handler.

func (c *Client) OffAll() {
	c.openHandlers.offAll()
	c.messageHandlers.offAll()
	c.errorHandlers.offAll()
	c.closeHandlers.offAll()
	c.reconnectAttemptHandlers.offAll()
	c.reconnectFailedHandlers.offAll()
}

func (c *Client) OnOpen(f OpenFunc) (off func()) {
	return c.openHandlers.on(f)
}

func (c *Client) OnceOpen(f OpenFunc) (off func()) {
	return c.openHandlers.once(f)
}

func (c *Client) OnMessage(f MessageFunc) (off func()) {
	return c.messageHandlers.on(f)
}

func (c *Client) OnceMessage(f MessageFunc) (off func()) {
	return c.messageHandlers.once(f)
}

func (c *Client) OnError(f ErrorFunc) (off func()) {
	return c.errorHandlers.on(f)
}

func (c *Client) OnceError(f ErrorFunc) (off func()) {
	return c.errorHandlers.once(f)
}

func (c *Client) OnClose(f CloseFunc) (off func()) {
	return c.closeHandlers.on(f)
}

func (c *Client) OnceClose(f CloseFunc) (off func()) {
	return c.closeHandlers.once(f)
}

// OnReconnectAttempt registers f to be called right before each reconnection attempt.
func (c *Client) OnReconnectAttempt(f ReconnectAttemptFunc) (off func()) {
	return c.reconnectAttemptHandlers.on(f)
}

func (c *Client) OnceReconnectAttempt(f ReconnectAttemptFunc) (off func()) {
	return c.reconnectAttemptHandlers.once(f)
}

// OnReconnectFailed registers f to be called when all reconnection attempts have failed.
func (c *Client) OnReconnectFailed(f ReconnectFailedFunc) (off func()) {
	return c.reconnectFailedHandlers.on(f)
}

func (c *Client) OnceReconnectFailed(f ReconnectFailedFunc) (off func()) {
	return c.reconnectFailedHandlers.once(f)
}

func (c *Client) emitOpen() {
	for _, f := range c.openHandlers.getAll() {
		f()
	}
}

func (c *Client) emitMessage(msg *Message) {
	for _, f := range c.messageHandlers.getAll() {
		f(msg)
	}
}

func (c *Client) emitError(err error) {
	for _, f := range c.errorHandlers.getAll() {
		f(err)
	}
}

func (c *Client) emitClose(reason Reason, err error) {
	for _, f := range c.closeHandlers.getAll() {
		f(reason, err)
	}
}

func (c *Client) emitReconnectAttempt(attempt uint32) {
	for _, f := range c.reconnectAttemptHandlers.getAll() {
		f(attempt)
	}
}

func (c *Client) emitReconnectFailed() {
	for _, f := range c.reconnectFailedHandlers.getAll() {
		f()
	}
}
