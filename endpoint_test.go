package iotstream

import (
	"errors"
	"testing"

	"github.com/ecotrack/iotstream/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		origin string
		path   string
		want   string
	}{
		{"https://dash.example", "/ws/energy/", "wss://dash.example/ws/energy/"},
		{"http://dash.example:8000", "/ws/energy/", "ws://dash.example:8000/ws/energy/"},
		{"http://localhost", "ws/scores/", "ws://localhost/ws/scores/"},
		{"HTTPS://dash.example/some/page", "/ws/hardware/?token=abc", "wss://dash.example/ws/hardware/?token=abc"},
		{"wss://dash.example", "/ws/network/", "wss://dash.example/ws/network/"},
		{"http://ignored", "https://other.example/ws/dashboard/", "wss://other.example/ws/dashboard/"},
		{"http://ignored", "ws://other.example/ws/dashboard/", "ws://other.example/ws/dashboard/"},
	}

	for _, test := range tests {
		t.Run(test.origin+" "+test.path, func(t *testing.T) {
			u, err := ResolveURL(test.origin, test.path)
			require.NoError(t, err)
			assert.Equal(t, test.want, u.String())
		})
	}
}

func TestResolveURLErrors(t *testing.T) {
	_, err := ResolveURL("ftp://dash.example", "/ws/energy/")
	assert.True(t, errors.Is(err, transport.ErrUnsupportedScheme))

	_, err = ResolveURL("http://", "/ws/energy/")
	assert.Error(t, err)

	_, err = ResolveURL("http://dash.example", "%zz")
	assert.Error(t, err)
}
