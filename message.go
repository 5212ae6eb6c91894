package iotstream

import "github.com/ecotrack/iotstream/codec"

// Message is a decoded frame.
type Message struct {
	// The frame decoded into a generic value:
	// map[string]any for objects, []any for arrays and so on.
	Data any

	raw        []byte
	serializer codec.Serializer
}

// Raw returns the frame as it was received.
func (m *Message) Raw() []byte { return m.raw }

// Decode decodes the frame again, into v.
func (m *Message) Decode(v any) error {
	return m.serializer.Unmarshal(m.raw, v)
}
