package iotstream

import mapset "github.com/deckarep/golang-set/v2"

// Reason a transport was closed.
type Reason string

const (
	// Disconnect was called.
	ReasonClientDisconnect Reason = "client disconnect"
	// The connection was closed normally by the server.
	ReasonTransportClose Reason = "transport close"
	// The connection failed (handshake, read or write error).
	ReasonTransportError Reason = "transport error"
	// The transport couldn't be created for the endpoint.
	ReasonDialError Reason = "dial error"
)

var recoverableReasons = mapset.NewThreadUnsafeSet(
	ReasonTransportClose,
	ReasonTransportError,
	ReasonDialError,
)

// Recoverable reports whether a close with this reason is followed by a reconnection attempt.
func (r Reason) Recoverable() bool {
	return recoverableReasons.Contains(r)
}
