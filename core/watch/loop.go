package watch

import (
	"context"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/cache"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/clock"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/logger"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/monitoring"
)

// ConfigStore persists the user's address and monitoring settings.
type ConfigStore interface {
	Load() (model.UserConfig, error)
	Save(model.UserConfig) error
}

// Notifier delivers one event to the configured channels. Best effort: a
// failure is logged by the caller and never retried.
type Notifier interface {
	Send(ctx context.Context, ev model.NotificationEvent) error
}

const (
	// reloadInterval is how often settings are re-read from disk,
	// independent of the poll cadence.
	reloadInterval = 30 * time.Second
	// errorBackoff delays the next cycle after a failed one.
	errorBackoff = 60 * time.Second
)

// Cadence derives the poll interval from the user's settings. Short lead
// times poll more often so the warning window cannot slip between checks.
func Cadence(m model.MonitoringConfig) time.Duration {
	before := m.NotificationBeforeMinutes
	var minutes int
	if before < 60 {
		minutes = max(1, before/15)
	} else {
		minutes = min(m.CheckIntervalMinutes, max(5, before/10))
	}
	return time.Duration(minutes) * time.Minute
}

// Loop owns the daemon's state: monitoring config, the notified set and the
// poll schedule. Exactly one Loop runs per process; nothing else mutates its
// state while it runs.
type Loop struct {
	store    ConfigStore
	governor *cache.Governor
	notifier Notifier
	clk      clock.Clock
	log      logger.Logger
	sink     metrics.Sink

	reload  time.Duration
	backoff time.Duration

	notified NotifiedSet
}

// NewLoop wires a poll loop with the standard reload and backoff intervals.
func NewLoop(store ConfigStore, governor *cache.Governor, notifier Notifier, clk clock.Clock, log logger.Logger, sink metrics.Sink) *Loop {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Loop{
		store:    store,
		governor: governor,
		notifier: notifier,
		clk:      clk,
		log:      log,
		sink:     sink,
		reload:   reloadInterval,
		backoff:  errorBackoff,
		notified: NewNotifiedSet(),
	}
}

// Run drives the notification state machine until ctx is cancelled. Settings
// are re-read every reload interval; polls happen on the computed cadence,
// plus an immediate one after a settings change. A failed cycle is logged,
// captured and retried after the backoff; only cancellation stops the loop.
func (l *Loop) Run(ctx context.Context) error {
	cfg, err := l.store.Load()
	if err != nil {
		l.log.Warnf("config load failed, starting with defaults: %v", err)
		cfg = model.DefaultUserConfig()
	}
	l.logSettings(cfg.Monitoring)

	st := loopState{settings: cfg.Monitoring}
	for {
		delay := l.reload
		var cycleErr error
		cfg, cycleErr = l.cycle(ctx, cfg, &st)
		if cycleErr != nil {
			l.log.Errorf("monitoring cycle failed: %v (next attempt in %s)", cycleErr, l.backoff)
			monitoring.CaptureException(cycleErr, map[string]string{"component": "watch"})
			delay = l.backoff
		}

		select {
		case <-ctx.Done():
			if st.dirty {
				if err := l.store.Save(cfg); err != nil {
					l.log.Errorf("config save on shutdown failed: %v", err)
				}
			}
			l.log.Infof("monitoring loop stopped")
			return nil
		case <-time.After(delay):
		}
	}
}

// loopState is the bookkeeping threaded between cycles.
type loopState struct {
	settings     model.MonitoringConfig // last seen user-settable fields
	lastPoll     time.Time
	disabledNote time.Time
	dirty        bool // in-memory config newer than disk after a failed save
}

func (l *Loop) cycle(ctx context.Context, cfg model.UserConfig, st *loopState) (model.UserConfig, error) {
	now := l.clk.Now()
	force := false

	// Settings reload comes first so a user change is honored in the same
	// cycle that observes it.
	loaded, err := l.store.Load()
	if err != nil {
		l.log.Warnf("config reload failed, keeping current settings: %v", err)
	} else {
		if !loaded.Monitoring.SettingsEqual(st.settings) {
			l.log.Infof("settings changed: enabled=%t notify_before=%dm check_interval=%dm",
				loaded.Monitoring.Enabled, loaded.Monitoring.NotificationBeforeMinutes, loaded.Monitoring.CheckIntervalMinutes)
			l.notified.Clear()
			loaded.Monitoring.TrackedOutage = nil
			force = true
			st.dirty = true
		} else if st.dirty {
			// Disk is behind after a failed save; keep our tracking state.
			loaded.Monitoring.TrackedOutage = cfg.Monitoring.TrackedOutage
		}
		cfg = loaded
		st.settings = loaded.Monitoring
	}

	if !cfg.Monitoring.Enabled {
		if now.Sub(st.disabledNote) >= time.Hour {
			l.log.Infof("monitoring disabled, waiting")
			st.disabledNote = now
		}
		l.recordCycle(metrics.CycleEvent{Time: now})
		return cfg, nil
	}

	if !force && !st.lastPoll.IsZero() && now.Sub(st.lastPoll) < Cadence(cfg.Monitoring) {
		l.recordCycle(metrics.CycleEvent{Time: now})
		return cfg, nil
	}

	if cfg.Address == nil {
		l.log.Debugf("no address configured, nothing to poll")
		st.lastPoll = now
		l.recordCycle(metrics.CycleEvent{Time: now})
		return cfg, nil
	}

	snap, _, err := l.governor.GetFresh(ctx, *cfg.Address, false)
	if err != nil {
		l.recordCycle(metrics.CycleEvent{Checked: true, Err: err, Duration: l.clk.Now().Sub(now), Time: now})
		return cfg, err
	}

	before := cfg.Monitoring.TrackedOutage
	ev, updated := Tick(cfg.Monitoring, snap, l.notified, now)
	cfg.Monitoring = updated
	st.lastPoll = now

	if trackedChanged(before, updated.TrackedOutage) {
		if err := l.store.Save(cfg); err != nil {
			l.log.Errorf("config save failed: %v", err)
			st.dirty = true
		} else {
			st.dirty = false
		}
	}

	if ev != nil {
		ev.Address = cfg.Address.String()
		l.deliver(ctx, *ev)
	} else {
		l.log.Debugf("no event: nothing within the %dm window", cfg.Monitoring.NotificationBeforeMinutes)
	}

	cycle := metrics.CycleEvent{Checked: true, Duration: l.clk.Now().Sub(now), Time: now}
	if ev != nil {
		cycle.EventKind = ev.Kind
	}
	l.recordCycle(cycle)
	return cfg, nil
}

func (l *Loop) deliver(ctx context.Context, ev model.NotificationEvent) {
	if err := l.notifier.Send(ctx, ev); err != nil {
		// Best effort; a retry could duplicate user-visible alerts.
		l.log.Errorf("notification delivery failed: %v", err)
		monitoring.CaptureMessage("notification delivery failed", map[string]string{"kind": string(ev.Kind)})
		return
	}
	l.log.Infof("notification dispatched: %s %s %02d:00-%02d:00", ev.Kind, ev.Date, ev.StartHour, ev.EndHour)
}

func (l *Loop) logSettings(m model.MonitoringConfig) {
	if !m.Enabled {
		l.log.Infof("monitoring disabled; enable it with the configure command")
		return
	}
	l.log.Infof("monitoring enabled: notify %dm before outages, polling every %s", m.NotificationBeforeMinutes, Cadence(m))
}

func (l *Loop) recordCycle(ev metrics.CycleEvent) {
	if err := l.sink.RecordCycle(ev); err != nil {
		l.log.Debugf("cycle metric not recorded: %v", err)
	}
}

func trackedChanged(a, b *model.TrackedOutage) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return *a != *b
}
