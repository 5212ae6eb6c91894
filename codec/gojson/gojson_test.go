package gojson

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderUsesOptions(t *testing.T) {
	s := New([]json.EncodeOptionFunc{json.DisableHTMLEscape()}, nil)

	var buf bytes.Buffer
	err := s.NewEncoder(&buf).Encode(map[string]string{"title": "<b>CPU</b>"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<b>CPU</b>")

	var v map[string]string
	err = s.NewDecoder(&buf).Decode(&v)
	require.NoError(t, err)
	assert.Equal(t, "<b>CPU</b>", v["title"])
}
