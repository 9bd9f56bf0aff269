// Package cache decides when the persisted schedule snapshot is still
// trustworthy and when the provider must be asked again.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/clock"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/logger"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/timeline"
)

// DefaultTTL is how long a fetched snapshot counts as fresh.
const DefaultTTL = time.Hour

// Fetcher acquires a schedule snapshot from the provider. Calls are
// expensive and network-bound; the fetcher enforces its own timeout.
type Fetcher interface {
	FetchSchedule(ctx context.Context, addr model.Address) (model.ScheduleSnapshot, error)
}

// SnapshotStore persists the most recent snapshot. Load returns nil without
// error when nothing has been stored yet.
type SnapshotStore interface {
	Load() (*model.ScheduleSnapshot, error)
	Save(model.ScheduleSnapshot) error
}

// Governor serves the cached snapshot while it is younger than the TTL and
// refreshes it otherwise. A fetch failure is surfaced, never papered over
// with stale data: an outdated schedule misleads the user about outage
// timing, which is worse than an error.
type Governor struct {
	fetcher Fetcher
	store   SnapshotStore
	clock   clock.Clock
	log     logger.Logger
	sink    metrics.Sink
	ttl     time.Duration
}

// New builds a Governor with the default one-hour TTL.
func New(fetcher Fetcher, store SnapshotStore, clk clock.Clock, log logger.Logger, sink metrics.Sink) *Governor {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Governor{
		fetcher: fetcher,
		store:   store,
		clock:   clk,
		log:     log,
		sink:    sink,
		ttl:     DefaultTTL,
	}
}

// GetFresh returns a snapshot it considers current. With force unset, a
// cached snapshot younger than the TTL is served as-is (fromCache=true).
// Otherwise the provider is fetched, the result persisted and returned
// (fromCache=false); a fetch error is returned to the caller.
func (g *Governor) GetFresh(ctx context.Context, addr model.Address, force bool) (model.ScheduleSnapshot, bool, error) {
	now := g.clock.Now()

	if !force {
		cached, err := g.store.Load()
		if err != nil {
			// Storage trouble must not block a refresh.
			g.log.Warnf("snapshot store read failed, fetching instead: %v", err)
		} else if cached != nil && cached.Age(now) < g.ttl {
			snap := g.sanitize(cached.Clone())
			g.record(metrics.FetchEvent{FromCache: true, ActualSlots: len(snap.Actual), WeeklySlots: len(snap.PossibleWeek), Time: now})
			return snap, true, nil
		}
	}

	started := g.clock.Now()
	snap, err := g.fetcher.FetchSchedule(ctx, addr)
	elapsed := g.clock.Now().Sub(started)
	if err != nil {
		g.record(metrics.FetchEvent{Err: err, Duration: elapsed, Time: now})
		return model.ScheduleSnapshot{}, false, fmt.Errorf("fetch schedule: %w", err)
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = now
	}
	snap = g.sanitize(snap)

	if err := g.store.Save(snap); err != nil {
		// Keep serving the fetched data; persistence is retried on the
		// next refresh.
		g.log.Errorf("snapshot store write failed: %v", err)
	}
	g.record(metrics.FetchEvent{ActualSlots: len(snap.Actual), WeeklySlots: len(snap.PossibleWeek), Duration: elapsed, Time: now})
	return snap, false, nil
}

// Cached returns the persisted snapshot regardless of age, or nil when none
// exists. Read-only operations that explicitly want "whatever we have" use
// this instead of GetFresh.
func (g *Governor) Cached() (*model.ScheduleSnapshot, error) {
	cached, err := g.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if cached == nil {
		return nil, nil
	}
	snap := g.sanitize(cached.Clone())
	return &snap, nil
}

func (g *Governor) sanitize(snap model.ScheduleSnapshot) model.ScheduleSnapshot {
	var dropped []model.OutageSlot
	snap.Actual, dropped = timeline.Sanitize(snap.Actual)
	for _, s := range dropped {
		g.log.Warnf("dropping malformed actual slot: %s", s)
	}
	snap.PossibleWeek, dropped = timeline.Sanitize(snap.PossibleWeek)
	for _, s := range dropped {
		g.log.Warnf("dropping malformed weekly slot: %s", s)
	}
	return snap
}

func (g *Governor) record(ev metrics.FetchEvent) {
	if err := g.sink.RecordFetch(ev); err != nil {
		g.log.Debugf("fetch metric not recorded: %v", err)
	}
}
