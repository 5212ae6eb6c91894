package feed

import (
	"github.com/ecotrack/iotstream"
	"github.com/ecotrack/iotstream/codec"
	"github.com/ecotrack/iotstream/codec/stdjson"
	"github.com/ecotrack/iotstream/internal/sync"
)

// MessageSource is implemented by *iotstream.Client.
type MessageSource interface {
	OnMessage(f iotstream.MessageFunc) (off func())
}

type SubscribeOptions struct {
	// Default: DefaultThresholds()
	Thresholds []Threshold

	// Decodes values that were sent as JSON strings.
	// Default: encoding/json
	Serializer codec.Serializer

	OnSnapshot func(s *Snapshot)
	OnAlert    func(a Alert)
	// Called with messages that aren't snapshots.
	OnError func(err error)
}

// Subscription decodes every message of a source into a Snapshot and
// checks it against the thresholds.
type Subscription struct {
	watcher    *Watcher
	serializer codec.Serializer
	opts       SubscribeOptions
	off        func()

	mu     sync.Mutex
	latest *Snapshot
}

func Subscribe(source MessageSource, opts *SubscribeOptions) *Subscription {
	if opts == nil {
		opts = new(SubscribeOptions)
	}
	s := &Subscription{
		watcher:    NewWatcher(opts.Thresholds),
		serializer: opts.Serializer,
		opts:       *opts,
	}
	if s.serializer == nil {
		s.serializer = stdjson.New()
	}
	s.off = source.OnMessage(s.onMessage)
	return s
}

func (s *Subscription) onMessage(msg *iotstream.Message) {
	snapshot, err := DecodeWith(s.serializer, msg.Data)
	if err != nil {
		if s.opts.OnError != nil {
			s.opts.OnError(err)
		}
		return
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if s.opts.OnSnapshot != nil {
		s.opts.OnSnapshot(snapshot)
	}
	for _, alert := range s.watcher.Check(snapshot) {
		if s.opts.OnAlert != nil {
			s.opts.OnAlert(alert)
		}
	}
}

// Latest returns the most recent snapshot, or nil if none was received yet.
func (s *Subscription) Latest() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close stops handling messages. The source isn't closed.
func (s *Subscription) Close() {
	s.off()
}
