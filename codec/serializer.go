// Package codec defines the wire format of stream frames: UTF-8 text frames
// holding one JSON value each. Implementations live in sub-packages.
package codec

import "io"

type (
	Serializer interface {
		MarshalUnmarshaler
		EncodeDecoder
	}

	MarshalUnmarshaler interface {
		Marshal(v any) ([]byte, error)
		Unmarshal(data []byte, v any) error
	}

	EncodeDecoder interface {
		NewEncoder(w io.Writer) Encoder
		NewDecoder(r io.Reader) Decoder
	}

	Encoder interface {
		Encode(v any) error
	}

	Decoder interface {
		Decode(v any) error
	}
)
