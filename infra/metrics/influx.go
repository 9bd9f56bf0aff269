package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/logger"
)

// InfluxSink writes monitoring events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordCycle writes one monitoring loop pass.
func (s *InfluxSink) RecordCycle(ev coremetrics.CycleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("monitor_cycle").
		AddTag("checked", strconv.FormatBool(ev.Checked)).
		AddTag("result", resultLabel(ev.Err)).
		AddTag("component", "monitor").
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("event", string(ev.EventKind)).
		AddField("errors", errString(ev.Err)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFetch writes one schedule acquisition.
func (s *InfluxSink) RecordFetch(ev coremetrics.FetchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_fetch").
		AddTag("source", sourceLabel(ev.FromCache)).
		AddTag("result", resultLabel(ev.Err)).
		AddField("actual_slots", ev.ActualSlots).
		AddField("weekly_slots", ev.WeeklySlots).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("errors", errString(ev.Err)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAlert writes one delivery attempt.
func (s *InfluxSink) RecordAlert(ev coremetrics.AlertEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("outage_alert").
		AddTag("kind", string(ev.Kind)).
		AddTag("channel", ev.Channel).
		AddTag("delivered", strconv.FormatBool(ev.Delivered)).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
