// Package transport abstracts the connection a stream client reads frames
// from. A Transport carries one connection epoch; reconnecting means
// creating a new Transport.
package transport

import (
	"errors"
	"net/url"
)

var ErrUnsupportedScheme = errors.New("transport: unsupported URL scheme")

type (
	Callbacks struct {
		// Called once, after the handshake succeeded.
		OnOpen func()

		// Called for every frame, in the order they were received.
		OnFrame func(data []byte)

		// Called exactly once when the transport terminates,
		// including when the handshake fails.
		// err is nil for a normal closure.
		OnClose func(transportName string, err error)
	}

	Dialer interface {
		// Name of the transport in lowercase.
		Name() string

		// NewTransport allocates a transport for u. It must not do any I/O.
		// A returned error means the endpoint can never be reached with this dialer.
		NewTransport(u *url.URL, callbacks *Callbacks) (Transport, error)
	}

	Transport interface {
		// Name of the transport in lowercase.
		Name() string

		// Run dials, performs the handshake and reads frames until the connection ends.
		// It is called once, on a new goroutine.
		Run()

		// Send writes a single text frame. On a write error the transport closes itself.
		Send(data []byte)

		// Close closes the transport and calls the OnClose callback if it wasn't already called.
		//
		// You must make sure that this method doesn't block or recursively call itself.
		Close()
	}
)

// CheckScheme returns ErrUnsupportedScheme unless u uses one of the given schemes.
func CheckScheme(u *url.URL, schemes ...string) error {
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return &SchemeError{Scheme: u.Scheme, Supported: schemes}
}

type SchemeError struct {
	Scheme    string
	Supported []string
}

func (e *SchemeError) Error() string {
	return "transport: unsupported URL scheme: " + e.Scheme
}

func (e *SchemeError) Is(target error) bool { return target == ErrUnsupportedScheme }
