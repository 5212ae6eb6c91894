package feed

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ecotrack/iotstream/codec"
	"github.com/ecotrack/iotstream/codec/stdjson"
	"github.com/mitchellh/mapstructure"
)

const (
	labelsKey    = "chart_labels"
	latestKey    = "latest_data"
	seriesSuffix = "_data"
	averagePref  = "avg_"
)

var ErrNotObject = errors.New("feed: message is not an object")

// Snapshot is one update of a dashboard page.
type Snapshot struct {
	// Chart labels (timestamps), oldest first.
	Labels []string

	// Metric name to values, keyed without the _data suffix ("cpu", "power").
	Series map[string][]float64

	// Averages computed by the server, keyed without the avg_ prefix.
	Averages map[string]float64

	// Most recent rows, newest first.
	Latest []Row
}

// Row is a raw sensor reading.
type Row struct {
	ID        int64          `mapstructure:"id" structs:"id"`
	CreatedAt string         `mapstructure:"created_at" structs:"created_at"`
	Fields    map[string]any `mapstructure:",remain" structs:"-"`
}

// Decode builds a Snapshot from a decoded message.
// Values that were sent as JSON strings are decoded with encoding/json.
func Decode(data any) (*Snapshot, error) {
	return DecodeWith(stdjson.New(), data)
}

// DecodeWith is Decode with a custom serializer for the JSON-encoded values.
func DecodeWith(serializer codec.Serializer, data any) (*Snapshot, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	s := &Snapshot{
		Series:   make(map[string][]float64),
		Averages: make(map[string]float64),
	}
	for key, value := range m {
		var err error
		switch {
		case key == labelsKey:
			err = decodeEmbedded(serializer, value, &s.Labels)
		case key == latestKey:
			err = decodeEmbedded(serializer, value, &s.Latest)
		case strings.HasSuffix(key, seriesSuffix):
			var series []float64
			err = decodeEmbedded(serializer, value, &series)
			s.Series[strings.TrimSuffix(key, seriesSuffix)] = series
		case strings.HasPrefix(key, averagePref):
			if missingValue(value) {
				// Average falls back to the series.
				continue
			}
			var avg float64
			err = weakDecode(value, &avg)
			if err == nil {
				s.Averages[strings.TrimPrefix(key, averagePref)] = avg
			}
		}
		if err != nil {
			return nil, fmt.Errorf("feed: %s: %w", key, err)
		}
	}
	return s, nil
}

// missingValue reports whether the server sent a placeholder instead of a number.
func missingValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

// decodeEmbedded decodes value into out. value may also be a string holding the JSON encoding.
func decodeEmbedded(serializer codec.Serializer, value any, out any) error {
	if str, ok := value.(string); ok {
		var v any
		err := serializer.Unmarshal([]byte(str), &v)
		if err != nil {
			return err
		}
		value = v
	}
	if value == nil {
		return nil
	}
	return weakDecode(value, out)
}

// Numbers may arrive as numeric strings.
func weakDecode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Average returns the server's average for metric if it sent one,
// otherwise the mean of the metric's series rounded to one decimal.
// ok is false if neither is available.
func (s *Snapshot) Average(metric string) (avg float64, ok bool) {
	if avg, ok := s.Averages[metric]; ok {
		return avg, true
	}
	series := s.Series[metric]
	if len(series) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return math.Round(sum/float64(len(series))*10) / 10, true
}
