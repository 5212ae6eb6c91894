package feed

import (
	"fmt"
	"math"

	"github.com/ecotrack/iotstream/internal/sync"
)

type Level string

const (
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Threshold is crossed when the metric's average is above Limit,
// or below it if Below is set.
type Threshold struct {
	Metric string
	Limit  float64
	Below  bool
	Level  Level
	Title  string
}

func (t Threshold) Crossed(v float64) bool {
	if t.Below {
		return v < t.Limit
	}
	return v > t.Limit
}

// DefaultThresholds are the limits the dashboard page alerts on.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Metric: "cpu", Limit: 80, Level: LevelWarning, Title: "High average CPU load"},
		{Metric: "ram", Limit: 85, Level: LevelWarning, Title: "Memory saturated"},
		{Metric: "power", Limit: 250, Level: LevelWarning, Title: "Excessive power draw"},
		{Metric: "co2", Limit: 150, Level: LevelDanger, Title: "High CO2 emissions"},
		{Metric: "eco", Limit: 50, Below: true, Level: LevelDanger, Title: "Eco score too low"},
	}
}

type Alert struct {
	Threshold
	Value float64
}

func (a Alert) String() string {
	cmp := ">"
	if a.Below {
		cmp = "<"
	}
	return fmt.Sprintf("[%s] %s: %s average %.1f (%s %g)", a.Level, a.Title, a.Metric, a.Value, cmp, a.Limit)
}

// How far an average must move while crossed before alerting again.
const realertDelta = 2

// Watcher remembers the last alerted value of each metric, so that a metric
// stuck above its limit doesn't alert on every snapshot.
type Watcher struct {
	thresholds []Threshold

	mu       sync.Mutex
	previous map[string]float64
}

// NewWatcher creates a watcher. nil thresholds means DefaultThresholds.
func NewWatcher(thresholds []Threshold) *Watcher {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	return &Watcher{
		thresholds: thresholds,
		previous:   make(map[string]float64),
	}
}

// Check returns the alerts raised by s. A metric alerts when it first crosses
// its threshold and again whenever it moves by more than 2 while crossed.
// Going back to normal rearms it. Metrics missing from s are left as they are.
func (w *Watcher) Check(s *Snapshot) []Alert {
	w.mu.Lock()
	defer w.mu.Unlock()

	var alerts []Alert
	for _, t := range w.thresholds {
		v, ok := s.Average(t.Metric)
		if !ok || math.IsNaN(v) {
			continue
		}
		if !t.Crossed(v) {
			delete(w.previous, t.Metric)
			continue
		}
		prev, seen := w.previous[t.Metric]
		if seen && math.Abs(v-prev) <= realertDelta {
			continue
		}
		w.previous[t.Metric] = v
		alerts = append(alerts, Alert{Threshold: t, Value: v})
	}
	return alerts
}
