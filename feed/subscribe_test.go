package feed

import (
	"testing"
	"time"

	"github.com/ecotrack/iotstream"
	"github.com/ecotrack/iotstream/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	dialer := testutil.NewFakeDialer()
	client := iotstream.NewClient("/ws/dashboard/", &iotstream.ClientConfig{
		Dialer:            dialer,
		ReconnectionDelay: func() *time.Duration { d := time.Hour; return &d }(),
	})

	var (
		snapshots []*Snapshot
		alerts    []Alert
		errs      []error
	)
	sub := Subscribe(client, &SubscribeOptions{
		OnSnapshot: func(s *Snapshot) { snapshots = append(snapshots, s) },
		OnAlert:    func(a Alert) { alerts = append(alerts, a) },
		OnError:    func(err error) { errs = append(errs, err) },
	})
	assert.Nil(t, sub.Latest())

	client.Connect()
	tr := dialer.Last()
	require.NotNil(t, tr)
	tr.Open()

	tr.Frame(`{"cpu_data": [90, 95], "avg_eco": "40"}`)
	require.Len(t, snapshots, 1)
	assert.Equal(t, snapshots[0], sub.Latest())
	assert.Equal(t, []string{"cpu", "eco"}, metrics(alerts))

	tr.Frame(`{"cpu_data": [91, 95]}`)
	assert.Len(t, snapshots, 2)
	assert.Len(t, alerts, 2)

	tr.Frame(`"not a snapshot"`)
	assert.Len(t, snapshots, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNotObject)

	sub.Close()
	tr.Frame(`{"cpu_data": [99]}`)
	assert.Len(t, snapshots, 2)

	client.Disconnect()
}
