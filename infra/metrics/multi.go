package metrics

import coremetrics "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"

// MultiSink fans monitoring events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCycle forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordCycle(ev coremetrics.CycleEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCycle(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFetch forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordFetch(ev coremetrics.FetchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordFetch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAlert forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordAlert(ev coremetrics.AlertEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAlert(ev); err != nil {
			return err
		}
	}
	return nil
}
