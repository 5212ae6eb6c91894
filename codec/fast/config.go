package fast

import (
	"github.com/bytedance/sonic"
	"github.com/goccy/go-json"
)

type Config struct {
	SonicConfig sonic.Config
	GoJSON      GoJSONConfig
}

type GoJSONConfig struct {
	EncodeOptions []json.EncodeOptionFunc
	DecodeOptions []json.DecodeOptionFunc
}

func DefaultConfig() Config {
	return Config{
		SonicConfig: sonic.Config{
			// Snapshots are kept by subscribers after the frame buffer is gone.
			CopyString:       true,
			CompactMarshaler: true,
			EscapeHTML:       true,
			SortMapKeys:      false,
			// Frames come from the network.
			ValidateString: true,
		},
		GoJSON: GoJSONConfig{
			EncodeOptions: []json.EncodeOptionFunc{
				json.UnorderedMap(),
			},
		},
	}
}
