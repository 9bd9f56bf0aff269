package watch

import (
	"time"

	"github.com/google/uuid"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/timeline"
)

// driftWindowMinutes bounds how close to the announced restoration the drift
// check looks for cancellations and end-hour changes.
const driftWindowMinutes = 10

// Tick evaluates one monitoring cycle against the given snapshot and instant.
// It emits at most one event: an upcoming-start warning takes priority, a
// schedule-drift event (cancellation, extension, shortening) is emitted
// otherwise, and nothing at all when monitoring is disabled. The notified set
// is updated in place; the returned config carries the tracked-outage
// transitions and must replace the caller's copy.
func Tick(cfg model.MonitoringConfig, snap model.ScheduleSnapshot, notified NotifiedSet, now time.Time) (*model.NotificationEvent, model.MonitoringConfig) {
	if !cfg.Enabled {
		return nil, cfg
	}

	today := now.Format(model.DateLayout)
	hour, minute := now.Hour(), now.Minute()
	cfg = expireTracked(cfg, today, hour, minute)

	c := timeline.Classify(timeline.MergeBlocks(snap.Actual), now)

	if ev, out, fired := checkUpcomingStart(cfg, c.FutureToday, notified, now); fired {
		return ev, out
	}
	return checkScheduleDrift(cfg, snap, today, hour, minute, now)
}

// checkUpcomingStart looks for the nearest future block entering the
// configured lead-time window. Only blocks later today qualify; an ongoing
// block was excluded by classification and can never re-trigger a warning.
func checkUpcomingStart(cfg model.MonitoringConfig, futureToday []model.OutageBlock, notified NotifiedSet, now time.Time) (*model.NotificationEvent, model.MonitoringConfig, bool) {
	hour, minute := now.Hour(), now.Minute()
	var closest *model.OutageBlock
	closestMin := 0
	for i := range futureToday {
		m := futureToday[i].MinutesUntilStart(hour, minute)
		if m < 0 || m > cfg.NotificationBeforeMinutes {
			continue
		}
		if closest == nil || m < closestMin {
			closest = &futureToday[i]
			closestMin = m
		}
	}
	if closest == nil || notified.Has(closest.Key()) {
		return nil, cfg, false
	}

	notified.Add(closest.Key())
	cfg.TrackedOutage = &model.TrackedOutage{
		Date:               closest.Date,
		StartHour:          closest.StartHour,
		EndHour:            closest.EndHour,
		NotifiedAboutStart: true,
	}
	ev := &model.NotificationEvent{
		ID:           uuid.NewString(),
		Kind:         model.EventStartWarning,
		Date:         closest.Date,
		DayOfWeek:    closest.DayOfWeek,
		StartHour:    closest.StartHour,
		EndHour:      closest.EndHour,
		MinutesUntil: closestMin,
		Type:         closest.Type,
		EmittedAt:    now,
	}
	return ev, cfg, true
}

// checkScheduleDrift compares the tracked outage against the snapshot when
// its restoration is at most ten minutes away. One drift event per tracked
// outage: after it fires, the outage is left alone until it expires.
func checkScheduleDrift(cfg model.MonitoringConfig, snap model.ScheduleSnapshot, today string, hour, minute int, now time.Time) (*model.NotificationEvent, model.MonitoringConfig) {
	t := cfg.TrackedOutage
	if t == nil || t.Date != today || t.NotifiedAboutChange {
		return nil, cfg
	}
	untilEnd := (t.EndHour-hour)*60 - minute
	if untilEnd < 0 || untilEnd > driftWindowMinutes {
		return nil, cfg
	}

	block, found := timeline.BlockByKey(snap.Actual, t.Key())
	switch {
	case !found:
		// The announced outage vanished from the schedule: cancelled.
		ev := &model.NotificationEvent{
			ID:        uuid.NewString(),
			Kind:      model.EventCancellation,
			Date:      t.Date,
			StartHour: t.StartHour,
			EndHour:   t.EndHour,
			EmittedAt: now,
		}
		cfg.TrackedOutage = nil
		return ev, cfg
	case block.EndHour != t.EndHour:
		kind := model.EventExtension
		if block.EndHour < t.EndHour {
			kind = model.EventShortening
		}
		ev := &model.NotificationEvent{
			ID:          uuid.NewString(),
			Kind:        kind,
			Date:        t.Date,
			DayOfWeek:   block.DayOfWeek,
			StartHour:   t.StartHour,
			EndHour:     block.EndHour,
			PrevEndHour: t.EndHour,
			Type:        block.Type,
			EmittedAt:   now,
		}
		updated := *t
		updated.EndHour = block.EndHour
		updated.NotifiedAboutChange = true
		cfg.TrackedOutage = &updated
		return ev, cfg
	}
	return nil, cfg
}

// expireTracked drops the tracked outage once its restoration time has
// passed or its date is already behind us.
func expireTracked(cfg model.MonitoringConfig, today string, hour, minute int) model.MonitoringConfig {
	t := cfg.TrackedOutage
	if t == nil {
		return cfg
	}
	if t.Date == today {
		if (t.EndHour-hour)*60-minute < 0 {
			cfg.TrackedOutage = nil
		}
		return cfg
	}
	trackedDay, err := time.Parse(model.DateLayout, t.Date)
	if err != nil {
		cfg.TrackedOutage = nil
		return cfg
	}
	todayDay, _ := time.Parse(model.DateLayout, today)
	if trackedDay.Before(todayDay) {
		cfg.TrackedOutage = nil
	}
	return cfg
}
