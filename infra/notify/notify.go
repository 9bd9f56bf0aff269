// Package notify delivers outage notifications over the configured
// channels: terminal, shared log file, Telegram, Pushover and MQTT.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// Channel delivers one notification over a single medium.
type Channel interface {
	Name() string
	Send(ctx context.Context, ev model.NotificationEvent) error
}

// Multi fans one event out to every channel. A failing channel never blocks
// the others; errors come back joined so the caller sees the full picture.
type Multi struct {
	channels []Channel
	sink     metrics.Sink
}

// NewMulti builds the fan-out. A nil sink disables alert metrics.
func NewMulti(sink metrics.Sink, channels ...Channel) *Multi {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Multi{channels: channels, sink: sink}
}

// Send delivers ev to every channel and records one alert metric per
// attempt.
func (m *Multi) Send(ctx context.Context, ev model.NotificationEvent) error {
	var errs []error
	for _, ch := range m.channels {
		err := ch.Send(ctx, ev)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
		}
		_ = m.sink.RecordAlert(metrics.AlertEvent{
			Kind:      ev.Kind,
			Channel:   ch.Name(),
			Delivered: err == nil,
			Time:      time.Now(),
		})
	}
	return errors.Join(errs...)
}

// Len reports how many channels are wired, for startup logging.
func (m *Multi) Len() int { return len(m.channels) }
