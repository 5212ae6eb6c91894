package fast

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "windows", "darwin":
		if runtime.GOARCH == "amd64" {
			assert.Equal(t, "sonic", Type().Name())
			return
		}
	}
	assert.Equal(t, "go-json", Type().Name())
}

func TestDecodeFrame(t *testing.T) {
	s := New()

	var v any
	err := s.Unmarshal([]byte(`{"avg_cpu": 42.5, "chart_labels": ["10:00:00"]}`), &v)
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 42.5, m["avg_cpu"])
	assert.Equal(t, []any{"10:00:00"}, m["chart_labels"])

	err = s.Unmarshal([]byte(`{"avg_cpu": `), &v)
	assert.Error(t, err)
}
