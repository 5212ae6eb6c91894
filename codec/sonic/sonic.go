//go:build amd64 && (linux || windows || darwin)

package sonic

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/ecotrack/iotstream/codec"
)

type Config = sonic.Config

type sonicSerializer struct {
	api sonic.API
}

func (s *sonicSerializer) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

func (s *sonicSerializer) Unmarshal(data []byte, v any) error {
	return s.api.Unmarshal(data, v)
}

func (s *sonicSerializer) NewEncoder(w io.Writer) codec.Encoder {
	return s.api.NewEncoder(w)
}

func (s *sonicSerializer) NewDecoder(r io.Reader) codec.Decoder {
	return s.api.NewDecoder(r)
}

func New(config sonic.Config) codec.Serializer {
	return &sonicSerializer{api: config.Froze()}
}
