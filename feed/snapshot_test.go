package feed

import (
	"encoding/json"
	"testing"

	"github.com/ecotrack/iotstream/codec/gojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUnmarshal(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

const dashboardFrame = `{
	"chart_labels": "[\"10:00:00\", \"10:00:05\"]",
	"cpu_data": [85.5, 90],
	"ram_data": "[40, 42.25]",
	"power_data": ["120", "130.5"],
	"eco_data": null,
	"avg_power": "260.4",
	"avg_co2": 151,
	"latest_data": [
		{"id": 12, "created_at": "2026-10-15T10:00:05Z", "hardware_sensor_id": "hw-1", "cpu_usage": 90},
		{"id": "11", "created_at": "2026-10-15T10:00:00Z", "hardware_sensor_id": "hw-2", "cpu_usage": 85.5}
	]
}`

func TestDecode(t *testing.T) {
	s, err := Decode(mustUnmarshal(t, dashboardFrame))
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00:00", "10:00:05"}, s.Labels)
	assert.Equal(t, []float64{85.5, 90}, s.Series["cpu"])
	assert.Equal(t, []float64{40, 42.25}, s.Series["ram"])
	assert.Equal(t, []float64{120, 130.5}, s.Series["power"])
	assert.Empty(t, s.Series["eco"])
	assert.Equal(t, map[string]float64{"power": 260.4, "co2": 151}, s.Averages)

	require.Len(t, s.Latest, 2)
	assert.Equal(t, int64(12), s.Latest[0].ID)
	assert.Equal(t, "2026-10-15T10:00:05Z", s.Latest[0].CreatedAt)
	assert.Equal(t, "hw-1", s.Latest[0].Fields["hardware_sensor_id"])
	assert.Equal(t, 90.0, s.Latest[0].Fields["cpu_usage"])
	assert.NotContains(t, s.Latest[0].Fields, "id")
	assert.Equal(t, int64(11), s.Latest[1].ID)
}

func TestDecodeWithGoJSON(t *testing.T) {
	s, err := DecodeWith(gojson.New(nil, nil), mustUnmarshal(t, dashboardFrame))
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 42.25}, s.Series["ram"])
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]any{1.0})
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = Decode(mustUnmarshal(t, `{"cpu_data": "[1, 2"}`))
	assert.Error(t, err)

	_, err = Decode(mustUnmarshal(t, `{"avg_cpu": "high"}`))
	assert.Error(t, err)
}

func TestAverage(t *testing.T) {
	s, err := Decode(mustUnmarshal(t, dashboardFrame))
	require.NoError(t, err)

	// The server's average wins over the series.
	avg, ok := s.Average("power")
	assert.True(t, ok)
	assert.Equal(t, 260.4, avg)

	avg, ok = s.Average("cpu")
	assert.True(t, ok)
	assert.Equal(t, 87.8, avg)

	avg, ok = s.Average("ram")
	assert.True(t, ok)
	assert.Equal(t, 41.1, avg)

	_, ok = s.Average("eco")
	assert.False(t, ok)
	_, ok = s.Average("battery")
	assert.False(t, ok)
}

func TestDecodeSkipsMissingAverages(t *testing.T) {
	for _, frame := range []string{
		`{"avg_eco": null}`,
		`{"avg_eco": ""}`,
		`{"avg_eco": "  "}`,
	} {
		s, err := Decode(mustUnmarshal(t, frame))
		require.NoError(t, err, frame)
		assert.NotContains(t, s.Averages, "eco", frame)
		_, ok := s.Average("eco")
		assert.False(t, ok, frame)
	}

	// The series takes over.
	s, err := Decode(mustUnmarshal(t, `{"avg_eco": null, "eco_data": [70, 80]}`))
	require.NoError(t, err)
	avg, ok := s.Average("eco")
	assert.True(t, ok)
	assert.Equal(t, 75.0, avg)
}
