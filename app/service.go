// Package app assembles the configured stores, the schedule fetcher, the
// cache governor and the delivery channels, and exposes the operations the
// CLI commands call.
package app

import (
	"fmt"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/config"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/cache"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/clock"
	coremetrics "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
	coremon "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/monitoring"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/watch"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/fetch"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/logger"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/monitoring"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/notify"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/storage"
)

// Service orchestrates the stores, the governor and the notifier.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	clk      clock.Clock
	store    watch.ConfigStore
	governor *cache.Governor
	notifier *notify.Multi
	sink     coremetrics.Sink

	closers []func()
}

// New creates a Service from the configuration. Channel and sink
// construction errors are fatal: a half-wired service would silently drop
// the alerts the user asked for.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	coremon.Init(mon)

	sink, err := buildSink(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	clk := clock.System{}
	svc := &Service{
		cfg:   cfg,
		log:   logg,
		clk:   clk,
		store: storage.NewConfigStore(cfg.Storage.ConfigPath()),
		sink:  sink,
	}

	snapshots := storage.NewSnapshotStore(cfg.Storage.SnapshotPath())
	fetcher := fetch.NewPlaywrightFetcher(cfg.Fetcher, clk)
	svc.governor = cache.New(fetcher, snapshots, clk, logger.New("cache"), sink)

	channels, closers, err := buildChannels(cfg.Notify)
	if err != nil {
		return nil, err
	}
	svc.notifier = notify.NewMulti(sink, channels...)
	svc.closers = closers
	return svc, nil
}

func buildSink(cfg config.MetricsConfig) (coremetrics.Sink, error) {
	var sinks []coremetrics.Sink
	if cfg.PromEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Influx.Enabled() {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		sinks = append(sinks, sink)
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return metrics.NewMultiSink(sinks...), nil
	}
}

func buildChannels(cfg config.NotifyConfig) ([]notify.Channel, []func(), error) {
	var channels []notify.Channel
	var closers []func()
	if !cfg.DisableTerminal {
		channels = append(channels, notify.Terminal{})
	}
	if cfg.LogFile != "" {
		channels = append(channels, notify.LogFile{Path: cfg.LogFile})
	}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, nil, fmt.Errorf("telegram channel: %w", err)
		}
		channels = append(channels, tg)
	}
	if cfg.Pushover.Enabled() {
		channels = append(channels, notify.Pushover{Token: cfg.Pushover.Token, User: cfg.Pushover.UserKey})
	}
	if cfg.MQTT.Enabled() {
		pub, err := notify.NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			return nil, nil, fmt.Errorf("mqtt channel: %w", err)
		}
		channels = append(channels, pub)
		closers = append(closers, pub.Close)
	}
	return channels, closers, nil
}

// Close releases the delivery channel connections and flushes pending
// monitoring events.
func (s *Service) Close() {
	for _, closeFn := range s.closers {
		closeFn()
	}
	coremon.Flush(2 * time.Second)
}
