package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
)

// PromSink records monitoring events in Prometheus metrics.
type PromSink struct {
	cycles  *prometheus.CounterVec
	fetches *prometheus.HistogramVec
	alerts  *prometheus.CounterVec
	slots   prometheus.Gauge
}

// NewPromSink registers the monitoring metrics on the default Prometheus
// registerer. The scrape endpoint is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_monitor_cycles_total",
		Help: "Total monitoring loop cycles",
	}, []string{"checked", "result"})
	fetches := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outage_schedule_fetch_seconds",
		Help:    "Time spent acquiring the outage schedule",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "result"})
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_alerts_total",
		Help: "Total notifications handed to delivery channels",
	}, []string{"kind", "channel", "delivered"})
	slots := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outage_actual_slots",
		Help: "Hourly outage slots in the most recent schedule snapshot",
	})

	if err := reg.Register(cycles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cycles = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fetches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetches = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(alerts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			alerts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(slots); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			slots = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{cycles: cycles, fetches: fetches, alerts: alerts, slots: slots}, nil
}

// RecordCycle increments the cycle counter.
func (s *PromSink) RecordCycle(ev coremetrics.CycleEvent) error {
	s.cycles.WithLabelValues(strconv.FormatBool(ev.Checked), resultLabel(ev.Err)).Inc()
	return nil
}

// RecordFetch observes the fetch duration and updates the slot gauge.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.fetches.WithLabelValues(sourceLabel(ev.FromCache), resultLabel(ev.Err)).Observe(ev.Duration.Seconds())
	if ev.Err == nil && s.slots != nil {
		s.slots.Set(float64(ev.ActualSlots))
	}
	return nil
}

// RecordAlert increments the alert counter for each delivery attempt.
func (s *PromSink) RecordAlert(ev coremetrics.AlertEvent) error {
	s.alerts.WithLabelValues(string(ev.Kind), ev.Channel, strconv.FormatBool(ev.Delivered)).Inc()
	return nil
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func sourceLabel(fromCache bool) string {
	if fromCache {
		return "cache"
	}
	return "provider"
}
