package watch

import (
	"testing"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

func hourlySlots(date string, from, to int) []model.OutageSlot {
	var slots []model.OutageSlot
	for h := from; h < to; h++ {
		slots = append(slots, model.OutageSlot{
			Kind:      model.KindActual,
			DayOfWeek: "П'ятниця",
			Date:      date,
			StartHour: h,
			EndHour:   h + 1,
			Type:      model.OutageDefinite,
		})
	}
	return slots
}

func snapshotOf(slots ...[]model.OutageSlot) model.ScheduleSnapshot {
	snap := model.ScheduleSnapshot{FetchedAt: time.Now()}
	for _, s := range slots {
		snap.Actual = append(snap.Actual, s...)
	}
	return snap
}

func at(date string, hour, minute int) time.Time {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func enabledConfig(beforeMinutes int) model.MonitoringConfig {
	cfg := model.DefaultMonitoringConfig()
	cfg.Enabled = true
	cfg.NotificationBeforeMinutes = beforeMinutes
	return cfg
}

func TestTickEmitsStartWarningInsideWindow(t *testing.T) {
	snap := snapshotOf(hourlySlots("14.11.25", 19, 20))
	notified := NewNotifiedSet()

	ev, cfg := Tick(enabledConfig(60), snap, notified, at("14.11.25", 18, 11))
	if ev == nil {
		t.Fatal("expected a start warning 49 minutes ahead")
	}
	if ev.Kind != model.EventStartWarning {
		t.Fatalf("expected start warning, got %s", ev.Kind)
	}
	if ev.MinutesUntil != 49 {
		t.Fatalf("expected 49 minutes until start, got %d", ev.MinutesUntil)
	}
	if cfg.TrackedOutage == nil || cfg.TrackedOutage.StartHour != 19 || cfg.TrackedOutage.EndHour != 20 {
		t.Fatalf("tracked outage not recorded: %+v", cfg.TrackedOutage)
	}
	if !cfg.TrackedOutage.NotifiedAboutStart {
		t.Fatal("tracked outage must carry the start flag")
	}
	if !notified.Has(model.OutageKey{Date: "14.11.25", StartHour: 19}) {
		t.Fatal("outage missing from notified set")
	}
}

func TestTickDeduplicatesStartWarning(t *testing.T) {
	snap := snapshotOf(hourlySlots("14.11.25", 19, 20))
	notified := NewNotifiedSet()
	cfg := enabledConfig(60)

	ev, cfg := Tick(cfg, snap, notified, at("14.11.25", 18, 11))
	if ev == nil {
		t.Fatal("first tick must emit")
	}
	ev, _ = Tick(cfg, snap, notified, at("14.11.25", 18, 26))
	if ev != nil {
		t.Fatalf("second tick in the same window must stay silent, got %s", ev.Kind)
	}
}

func TestTickRespectsWindowBounds(t *testing.T) {
	snap := snapshotOf(hourlySlots("14.11.25", 19, 20))

	ev, _ := Tick(enabledConfig(30), snap, NewNotifiedSet(), at("14.11.25", 18, 11))
	if ev != nil {
		t.Fatalf("49 minutes ahead is outside a 30 minute window, got %s", ev.Kind)
	}

	ev, _ = Tick(enabledConfig(60), snap, NewNotifiedSet(), at("14.11.25", 18, 0))
	if ev == nil {
		t.Fatal("exactly 60 minutes ahead is inside a 60 minute window")
	}
}

// Regression: an outage running 13:00-20:00 must not trigger a start warning
// at 17:17 just because its hourly tail slots look like future starts.
func TestTickOngoingOutageNeverWarnsAboutStart(t *testing.T) {
	snap := snapshotOf(hourlySlots("14.11.25", 13, 20))

	ev, cfg := Tick(enabledConfig(45), snap, NewNotifiedSet(), at("14.11.25", 17, 17))
	if ev != nil {
		t.Fatalf("ongoing outage produced %s", ev.Kind)
	}
	if cfg.TrackedOutage != nil {
		t.Fatalf("nothing should be tracked, got %+v", cfg.TrackedOutage)
	}
}

func TestTickPicksClosestCandidate(t *testing.T) {
	snap := snapshotOf(hourlySlots("14.11.25", 19, 20), hourlySlots("14.11.25", 21, 22))

	ev, _ := Tick(enabledConfig(300), snap, NewNotifiedSet(), at("14.11.25", 18, 0))
	if ev == nil || ev.StartHour != 19 {
		t.Fatalf("expected the 19:00 block, got %+v", ev)
	}
}

func TestTickDisabledIsNoOp(t *testing.T) {
	snap := snapshotOf(hourlySlots("14.11.25", 19, 20))
	cfg := model.DefaultMonitoringConfig()
	cfg.TrackedOutage = &model.TrackedOutage{Date: "13.11.25", StartHour: 1, EndHour: 2}

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 18, 11))
	if ev != nil {
		t.Fatalf("disabled monitoring emitted %s", ev.Kind)
	}
	if out.TrackedOutage == nil || *out.TrackedOutage != *cfg.TrackedOutage {
		t.Fatal("disabled monitoring must leave state untouched")
	}
}

func trackedFor(date string, start, end int) model.MonitoringConfig {
	cfg := enabledConfig(60)
	cfg.TrackedOutage = &model.TrackedOutage{
		Date:               date,
		StartHour:          start,
		EndHour:            end,
		NotifiedAboutStart: true,
	}
	return cfg
}

func TestTickDetectsExtension(t *testing.T) {
	cfg := trackedFor("14.11.25", 13, 20)
	snap := snapshotOf(hourlySlots("14.11.25", 13, 21))

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 55))
	if ev == nil || ev.Kind != model.EventExtension {
		t.Fatalf("expected extension, got %+v", ev)
	}
	if ev.PrevEndHour != 20 || ev.EndHour != 21 {
		t.Fatalf("expected 20 -> 21, got %d -> %d", ev.PrevEndHour, ev.EndHour)
	}
	if out.TrackedOutage.EndHour != 21 || !out.TrackedOutage.NotifiedAboutChange {
		t.Fatalf("tracked outage not updated: %+v", out.TrackedOutage)
	}

	// A change is announced once per tracked outage.
	ev, _ = Tick(out, snap, NewNotifiedSet(), at("14.11.25", 19, 58))
	if ev != nil {
		t.Fatalf("drift re-announced: %s", ev.Kind)
	}
}

func TestTickDetectsShortening(t *testing.T) {
	cfg := trackedFor("14.11.25", 13, 20)
	snap := snapshotOf(hourlySlots("14.11.25", 13, 19))

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 55))
	if ev == nil || ev.Kind != model.EventShortening {
		t.Fatalf("expected shortening, got %+v", ev)
	}
	if ev.EndHour != 19 || ev.PrevEndHour != 20 {
		t.Fatalf("expected 20 -> 19, got %d -> %d", ev.PrevEndHour, ev.EndHour)
	}
	if out.TrackedOutage.EndHour != 19 {
		t.Fatalf("tracked end not updated: %+v", out.TrackedOutage)
	}
}

func TestTickDetectsCancellation(t *testing.T) {
	cfg := trackedFor("14.11.25", 13, 20)
	snap := snapshotOf(hourlySlots("14.11.25", 22, 23))

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 55))
	if ev == nil || ev.Kind != model.EventCancellation {
		t.Fatalf("expected cancellation, got %+v", ev)
	}
	if out.TrackedOutage != nil {
		t.Fatalf("cancelled outage must stop being tracked: %+v", out.TrackedOutage)
	}
}

func TestTickDriftOnlyNearRestoration(t *testing.T) {
	cfg := trackedFor("14.11.25", 13, 20)
	snap := snapshotOf(hourlySlots("14.11.25", 13, 21))

	// Two hours before restoration: too early.
	ev, _ := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 18, 0))
	if ev != nil {
		t.Fatalf("drift checked too early: %s", ev.Kind)
	}

	// Eleven minutes before: still outside the window.
	ev, _ = Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 49))
	if ev != nil {
		t.Fatalf("drift window is ten minutes, got %s at t-11m", ev.Kind)
	}

	// Ten minutes before: inside.
	ev, _ = Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 50))
	if ev == nil {
		t.Fatal("expected drift event at t-10m")
	}
}

func TestTickDriftIgnoresOtherDays(t *testing.T) {
	cfg := trackedFor("15.11.25", 13, 20)
	snap := snapshotOf(hourlySlots("15.11.25", 13, 21))

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 55))
	if ev != nil {
		t.Fatalf("tracked outage dated tomorrow produced %s today", ev.Kind)
	}
	if out.TrackedOutage == nil {
		t.Fatal("future tracked outage must survive")
	}
}

func TestTickStartWarningBeatsDrift(t *testing.T) {
	// Tracked outage about to end, and a brand new block inside the start
	// window: the start warning wins the cycle.
	cfg := trackedFor("14.11.25", 13, 20)
	cfg.NotificationBeforeMinutes = 150
	snap := snapshotOf(hourlySlots("14.11.25", 13, 21), hourlySlots("14.11.25", 22, 23))

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 19, 55))
	if ev == nil || ev.Kind != model.EventStartWarning {
		t.Fatalf("expected start warning to take priority, got %+v", ev)
	}
	if ev.StartHour != 22 {
		t.Fatalf("expected the 22:00 block, got %d", ev.StartHour)
	}
	if out.TrackedOutage == nil || out.TrackedOutage.StartHour != 22 {
		t.Fatalf("tracking must follow the newly announced outage: %+v", out.TrackedOutage)
	}
}

func TestTickExpiresTrackedAfterRestoration(t *testing.T) {
	cfg := trackedFor("14.11.25", 13, 20)
	snap := snapshotOf(hourlySlots("14.11.25", 13, 20))

	ev, out := Tick(cfg, snap, NewNotifiedSet(), at("14.11.25", 20, 5))
	if ev != nil {
		t.Fatalf("expiry must be silent, got %s", ev.Kind)
	}
	if out.TrackedOutage != nil {
		t.Fatalf("restoration passed, tracking must end: %+v", out.TrackedOutage)
	}
}

func TestTickExpiresTrackedFromPastDays(t *testing.T) {
	cfg := trackedFor("13.11.25", 13, 20)
	ev, out := Tick(cfg, snapshotOf(), NewNotifiedSet(), at("14.11.25", 9, 0))
	if ev != nil || out.TrackedOutage != nil {
		t.Fatalf("yesterday's tracking must be dropped silently, ev=%v tracked=%+v", ev, out.TrackedOutage)
	}
}
