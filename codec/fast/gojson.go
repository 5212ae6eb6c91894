//go:build !amd64 || (amd64 && !(linux || windows || darwin))

package fast

import (
	"github.com/ecotrack/iotstream/codec"
	"github.com/ecotrack/iotstream/codec/gojson"
)

func New() codec.Serializer {
	defaultConfig := DefaultConfig()
	return gojson.New(defaultConfig.GoJSON.EncodeOptions, defaultConfig.GoJSON.DecodeOptions)
}

func NewWithConfig(config Config) codec.Serializer {
	return gojson.New(config.GoJSON.EncodeOptions, config.GoJSON.DecodeOptions)
}

func Type() SerializerType {
	return SerializerTypeGoJSON
}
