package iotstream

// ParseError is delivered to the error handlers when a frame
// can't be decoded. The connection stays open.
type ParseError struct {
	// The frame as it was received.
	Frame []byte
	Err   error
}

func (e *ParseError) Error() string {
	return "iotstream: malformed frame: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
