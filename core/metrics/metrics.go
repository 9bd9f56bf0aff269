package metrics

import (
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// CycleEvent captures one pass of the monitoring loop.
type CycleEvent struct {
	Checked   bool
	EventKind model.EventKind
	Err       error
	Duration  time.Duration
	Time      time.Time
}

// FetchEvent captures one schedule acquisition, whether served from cache or
// fetched from the provider.
type FetchEvent struct {
	FromCache   bool
	ActualSlots int
	WeeklySlots int
	Err         error
	Duration    time.Duration
	Time        time.Time
}

// AlertEvent captures one notification handed to a delivery channel.
type AlertEvent struct {
	Kind      model.EventKind
	Channel   string
	Delivered bool
	Time      time.Time
}

// Sink records monitoring events for observability purposes.
type Sink interface {
	RecordCycle(ev CycleEvent) error
	RecordFetch(ev FetchEvent) error
	RecordAlert(ev AlertEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) RecordCycle(CycleEvent) error { return nil }
func (NopSink) RecordFetch(FetchEvent) error { return nil }
func (NopSink) RecordAlert(AlertEvent) error { return nil }
