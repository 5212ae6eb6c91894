package iotstream

import (
	"fmt"

	"github.com/ecotrack/iotstream/transport"
)

// Client methods that are directly related to
// connection, reconnection, and disconnection functionalities.

// Connect starts connecting in the background and returns immediately.
// It does nothing if the client is already connecting or connected.
//
// After Disconnect or after the reconnection attempts were exhausted,
// Connect starts over with a fresh attempt budget.
func (c *Client) Connect() {
	c.mu.Lock()
	if state := c.state; state == StateConnecting || state == StateOpen {
		c.mu.Unlock()
		c.debug.Log("Connect ignored", state)
		return
	}
	if c.state == StateExhausted || c.skipReconnect {
		c.backoff.reset()
	}
	c.skipReconnect = false
	c.stopTimer()
	start := c.open()
	c.mu.Unlock()

	start()
}

// open creates the transport for a new epoch. c.mu must be held.
// The returned function must be called after c.mu is released.
func (c *Client) open() (start func()) {
	c.epoch++
	epoch := c.epoch
	c.epochID.Store(c.yeaster.Yeast())
	c.state = StateConnecting

	t, err := c.newTransport(epoch)
	if err != nil {
		c.transport = nil
		c.state = StateClosed
		return func() { c.onDialError(epoch, err) }
	}
	c.transport = t
	return func() {
		c.debug.Log("Connecting", t.Name())
		go t.Run()
	}
}

func (c *Client) newTransport(epoch uint64) (transport.Transport, error) {
	u, err := ResolveURL(c.origin, c.path)
	if err != nil {
		return nil, err
	}
	callbacks := &transport.Callbacks{
		OnOpen:  func() { c.onTransportOpen(epoch) },
		OnFrame: func(data []byte) { c.onTransportFrame(epoch, data) },
		OnClose: func(name string, err error) { c.onTransportClose(epoch, name, err) },
	}
	t, err := c.dialer.NewTransport(u, callbacks)
	if err != nil {
		return nil, fmt.Errorf("iotstream: %s: %w", c.dialer.Name(), err)
	}
	return t, nil
}

func (c *Client) onTransportOpen(epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch || c.state != StateConnecting {
		c.mu.Unlock()
		c.debug.Log("Stale open ignored")
		return
	}
	c.state = StateOpen
	c.backoff.reset()
	c.mu.Unlock()

	c.debug.Log("Open")
	c.events.add(func() {
		if c.isCurrent(epoch) {
			c.emitOpen()
		}
	})
}

// isCurrent reports whether epoch is the epoch of the client's transport.
// Disconnect and every new transport make older epochs stale.
func (c *Client) isCurrent(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return epoch == c.epoch
}

func (c *Client) onTransportFrame(epoch uint64, data []byte) {
	c.mu.Lock()
	current := epoch == c.epoch && c.state == StateOpen
	c.mu.Unlock()
	if !current {
		return
	}

	var v any
	err := c.serializer.Unmarshal(data, &v)
	if err != nil {
		perr := &ParseError{Frame: data, Err: err}
		c.debug.Log("Frame dropped", perr)
		c.events.add(func() {
			if c.isCurrent(epoch) {
				c.emitError(perr)
			}
		})
		return
	}
	msg := &Message{
		Data:       v,
		raw:        data,
		serializer: c.serializer,
	}
	c.events.add(func() {
		if c.isCurrent(epoch) {
			c.emitMessage(msg)
		}
	})
}

func (c *Client) onTransportClose(epoch uint64, name string, err error) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.debug.Log("Close of a previous transport ignored", name)
		return
	}
	c.transport = nil
	c.state = StateClosed
	c.mu.Unlock()

	reason := ReasonTransportClose
	if err != nil {
		reason = ReasonTransportError
		err = fmt.Errorf("iotstream: %s: %w", name, err)
	}
	c.debug.Log("Transport closed", reason, err)
	c.events.add(func() { c.onClose(reason, err) })
}

func (c *Client) onDialError(epoch uint64, err error) {
	c.mu.Lock()
	current := epoch == c.epoch && c.state == StateClosed
	c.mu.Unlock()
	if !current {
		return
	}
	c.debug.Log("Transport couldn't be created", err)
	c.events.add(func() { c.onClose(ReasonDialError, err) })
}

// onClose runs on the event queue.
func (c *Client) onClose(reason Reason, err error) {
	if err != nil {
		c.emitError(err)
	}
	c.emitClose(reason, err)
	if reason.Recoverable() {
		c.maybeReconnect()
	}
}

func (c *Client) maybeReconnect() {
	c.mu.Lock()
	// A handler may have called Connect or Disconnect.
	if c.skipReconnect || c.state != StateClosed {
		c.mu.Unlock()
		return
	}

	if c.backoff.exhausted() {
		c.state = StateExhausted
		c.mu.Unlock()
		c.debug.Log("Reconnection attempts exhausted", c.backoff.attempts())
		c.emitReconnectFailed()
		return
	}

	delay := c.backoff.duration()
	attempt := c.backoff.attempts()
	c.stopTimer()
	gen := c.timerGen
	c.timer = c.afterFunc(delay, func() {
		c.events.add(func() { c.reconnect(gen, attempt) })
	})
	c.mu.Unlock()

	c.debug.Log("Reconnecting in", delay, "attempt", attempt)
}

// reconnectable reports whether the timer of generation gen is still wanted. c.mu must be held.
func (c *Client) reconnectable(gen uint64) bool {
	return gen == c.timerGen && !c.skipReconnect && c.state == StateClosed
}

// reconnect runs on the event queue.
func (c *Client) reconnect(gen uint64, attempt uint32) {
	c.mu.Lock()
	if !c.reconnectable(gen) {
		c.mu.Unlock()
		c.debug.Log("Obsolete reconnection timer ignored")
		return
	}
	c.timer = nil
	c.mu.Unlock()

	c.emitReconnectAttempt(attempt)

	// A reconnect attempt handler may have called Connect or Disconnect.
	c.mu.Lock()
	if !c.reconnectable(gen) {
		c.mu.Unlock()
		return
	}
	start := c.open()
	c.mu.Unlock()

	start()
}

// stopTimer cancels the pending reconnection, if any. c.mu must be held.
func (c *Client) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

// Disconnect closes the connection and cancels any pending reconnection.
// Close handlers are called with ReasonClientDisconnect if the client was
// connecting or connected. Calling it again does nothing.
//
// Open and message handlers of the closed transport never run after the
// close handlers. If another goroutine is delivering an event at the time,
// the close handlers run on that goroutine once it is done, which may be
// after Disconnect returns.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.skipReconnect = true
	c.stopTimer()
	t := c.transport
	c.transport = nil
	c.epoch++
	live := c.state == StateConnecting || c.state == StateOpen
	if live {
		c.state = StateClosed
	}
	c.mu.Unlock()

	if t != nil {
		t.Close()
	}
	if live {
		c.debug.Log("Disconnected")
		c.events.add(func() { c.emitClose(ReasonClientDisconnect, nil) })
	}
}

// Send encodes v with the configured serializer and writes it as one frame.
//
// If the client isn't connected the value is dropped and a warning is logged.
// Nothing is queued.
func (c *Client) Send(v any) {
	c.mu.Lock()
	t := c.transport
	state := c.state
	c.mu.Unlock()

	if t == nil || state != StateOpen {
		c.debug.Warn("Send while "+state.String()+", message dropped", v)
		return
	}

	data, err := c.serializer.Marshal(v)
	if err != nil {
		err = fmt.Errorf("iotstream: encode: %w", err)
		c.events.add(func() { c.emitError(err) })
		return
	}
	t.Send(data)
}
