package iotstream

// State of a Client's logical connection.
type State int

const (
	// Created, Connect not called yet.
	StateIdle State = iota
	// A transport exists and its handshake is in progress.
	StateConnecting
	StateOpen
	// No transport. Either waiting for a reconnect attempt or shut down by Disconnect.
	StateClosed
	// The reconnection budget is spent. Only an explicit Connect leaves this state.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateExhausted:
		return "exhausted"
	}
	return "<invalid>"
}
