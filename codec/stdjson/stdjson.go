package stdjson

import (
	"encoding/json"
	"io"

	"github.com/ecotrack/iotstream/codec"
)

type stdjsonSerializer struct{}

func (s stdjsonSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (s stdjsonSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (s stdjsonSerializer) NewEncoder(w io.Writer) codec.Encoder {
	return json.NewEncoder(w)
}

func (s stdjsonSerializer) NewDecoder(r io.Reader) codec.Decoder {
	return json.NewDecoder(r)
}

func New() codec.Serializer {
	return &stdjsonSerializer{}
}
