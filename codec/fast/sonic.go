//go:build amd64 && (linux || windows || darwin)

package fast

import (
	"github.com/ecotrack/iotstream/codec"
	"github.com/ecotrack/iotstream/codec/sonic"
)

func New() codec.Serializer {
	defaultConfig := DefaultConfig()
	return sonic.New(defaultConfig.SonicConfig)
}

func NewWithConfig(config Config) codec.Serializer {
	return sonic.New(config.SonicConfig)
}

func Type() SerializerType {
	return SerializerTypeSonic
}
