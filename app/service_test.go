package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/config"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/cache"
	coremetrics "github.com/AIckathon-2025-08/blackout-tracker-mcp/core/metrics"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/logger"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/notify"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/internal/eventbus"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeFetcher struct {
	snap  model.ScheduleSnapshot
	err   error
	calls int
}

func (f *fakeFetcher) FetchSchedule(_ context.Context, _ model.Address) (model.ScheduleSnapshot, error) {
	f.calls++
	if f.err != nil {
		return model.ScheduleSnapshot{}, f.err
	}
	return f.snap.Clone(), nil
}

type memConfigStore struct {
	cfg   model.UserConfig
	saves int
}

func (m *memConfigStore) Load() (model.UserConfig, error) { return m.cfg, nil }

func (m *memConfigStore) Save(cfg model.UserConfig) error {
	m.cfg = cfg
	m.saves++
	return nil
}

type memSnapshotStore struct {
	snap *model.ScheduleSnapshot
}

func (m *memSnapshotStore) Load() (*model.ScheduleSnapshot, error) { return m.snap, nil }

func (m *memSnapshotStore) Save(snap model.ScheduleSnapshot) error {
	m.snap = &snap
	return nil
}

type recordChannel struct {
	name string
	sent []model.NotificationEvent
	err  error
}

func (c *recordChannel) Name() string { return c.name }

func (c *recordChannel) Send(_ context.Context, ev model.NotificationEvent) error {
	c.sent = append(c.sent, ev)
	return c.err
}

func testAddress() model.Address {
	return model.Address{City: "Київ", Street: "вулиця Хрещатик", HouseNumber: "1"}
}

func newTestService(fetcher cache.Fetcher, store *memConfigStore, snaps cache.SnapshotStore, now time.Time, channels ...notify.Channel) *Service {
	clk := fixedClock{now: now}
	return &Service{
		cfg:      &config.Config{Fetcher: config.FetcherConfig{TimeoutSeconds: 5}},
		log:      logger.NopLogger{},
		clk:      clk,
		store:    store,
		governor: cache.New(fetcher, snaps, clk, logger.NopLogger{}, coremetrics.NopSink{}),
		notifier: notify.NewMulti(nil, channels...),
		sink:     coremetrics.NopSink{},
	}
}

// actualHour builds one validated grid cell for the given date.
func actualHour(date, day string, start int, typ model.OutageType) model.OutageSlot {
	return model.OutageSlot{
		Kind:      model.KindActual,
		DayOfWeek: day,
		Date:      date,
		StartHour: start,
		EndHour:   start + 1,
		Type:      typ,
	}
}

func weeklyHour(day string, start int) model.OutageSlot {
	return model.OutageSlot{
		Kind:      model.KindPossibleWeek,
		DayOfWeek: day,
		StartHour: start,
		EndHour:   start + 1,
		Type:      model.OutagePossible,
	}
}

func TestSetAddressPersists(t *testing.T) {
	store := &memConfigStore{cfg: model.DefaultUserConfig()}
	svc := newTestService(&fakeFetcher{}, store, &memSnapshotStore{}, time.Now())

	addr, err := svc.SetAddress("  Київ ", "вулиця Хрещатик", " 1 ")
	if err != nil {
		t.Fatalf("SetAddress: %v", err)
	}
	if addr != testAddress() {
		t.Errorf("unexpected address %+v", addr)
	}
	if store.cfg.Address == nil || *store.cfg.Address != testAddress() {
		t.Errorf("address not persisted: %+v", store.cfg.Address)
	}

	if _, err := svc.SetAddress("Київ", "", "1"); err == nil {
		t.Error("expected error for missing street")
	}
	if store.saves != 1 {
		t.Errorf("invalid address must not be saved, got %d saves", store.saves)
	}
}

func TestSetAddressKeepsSnapshot(t *testing.T) {
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)
	snaps := &memSnapshotStore{snap: &model.ScheduleSnapshot{
		Actual:    []model.OutageSlot{actualHour(now.Format(model.DateLayout), "Середа", 12, model.OutageDefinite)},
		FetchedAt: now,
	}}
	store := &memConfigStore{cfg: model.UserConfig{Monitoring: model.DefaultMonitoringConfig()}}
	svc := newTestService(&fakeFetcher{}, store, snaps, now)

	if _, err := svc.SetAddress("Київ", "вулиця Хрещатик", "1"); err != nil {
		t.Fatalf("SetAddress: %v", err)
	}
	if snaps.snap == nil {
		t.Error("snapshot must survive an address change")
	}
}

func TestCheckScheduleRequiresAddress(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &memConfigStore{cfg: model.DefaultUserConfig()}, &memSnapshotStore{}, time.Now())

	_, err := svc.CheckSchedule(context.Background(), false, false)
	if !errors.Is(err, ErrNoAddress) {
		t.Fatalf("expected ErrNoAddress, got %v", err)
	}
}

func TestCheckScheduleFetchesThenServesCache(t *testing.T) {
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)
	today := now.Format(model.DateLayout)
	fetcher := &fakeFetcher{snap: model.ScheduleSnapshot{
		Actual: []model.OutageSlot{actualHour(today, "Середа", 12, model.OutageDefinite)},
	}}
	addr := testAddress()
	store := &memConfigStore{cfg: model.UserConfig{Address: &addr, Monitoring: model.DefaultMonitoringConfig()}}
	svc := newTestService(fetcher, store, &memSnapshotStore{}, now)

	report, err := svc.CheckSchedule(context.Background(), true, false)
	if err != nil {
		t.Fatalf("CheckSchedule: %v", err)
	}
	if report.FromCache {
		t.Error("first check must fetch")
	}
	if !report.IncludePossible {
		t.Error("IncludePossible flag lost")
	}
	if len(report.Snapshot.Actual) != 1 {
		t.Fatalf("expected 1 actual slot, got %d", len(report.Snapshot.Actual))
	}

	report, err = svc.CheckSchedule(context.Background(), false, false)
	if err != nil {
		t.Fatalf("second CheckSchedule: %v", err)
	}
	if !report.FromCache {
		t.Error("fresh snapshot must be served from cache")
	}
	if fetcher.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls)
	}

	report, err = svc.CheckSchedule(context.Background(), false, true)
	if err != nil {
		t.Fatalf("forced CheckSchedule: %v", err)
	}
	if report.FromCache {
		t.Error("forced check must bypass the cache")
	}
	if fetcher.calls != 2 {
		t.Errorf("expected 2 fetches after force, got %d", fetcher.calls)
	}
}

func TestCheckScheduleSurfacesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("page unreachable")}
	addr := testAddress()
	store := &memConfigStore{cfg: model.UserConfig{Address: &addr, Monitoring: model.DefaultMonitoringConfig()}}
	svc := newTestService(fetcher, store, &memSnapshotStore{}, time.Now())

	if _, err := svc.CheckSchedule(context.Background(), false, false); err == nil {
		t.Fatal("expected fetch error to surface")
	}
}

func TestNextOutageResolvesCurrentAndNext(t *testing.T) {
	now := time.Date(2025, 8, 20, 10, 30, 0, 0, time.Local)
	today := now.Format(model.DateLayout)
	addr := testAddress()
	snaps := &memSnapshotStore{snap: &model.ScheduleSnapshot{
		Actual: []model.OutageSlot{
			actualHour(today, "Середа", 9, model.OutageDefinite),
			actualHour(today, "Середа", 10, model.OutageDefinite),
			actualHour(today, "Середа", 12, model.OutagePossible),
			actualHour(today, "Середа", 13, model.OutagePossible),
		},
		FetchedAt: now.Add(-10 * time.Minute),
	}}
	store := &memConfigStore{cfg: model.UserConfig{Address: &addr, Monitoring: model.DefaultMonitoringConfig()}}
	svc := newTestService(&fakeFetcher{}, store, snaps, now)

	report, err := svc.NextOutage()
	if err != nil {
		t.Fatalf("NextOutage: %v", err)
	}
	if report.Current == nil || report.Current.StartHour != 9 || report.Current.EndHour != 11 {
		t.Errorf("unexpected current block: %+v", report.Current)
	}
	if report.Next == nil || report.Next.StartHour != 12 || report.Next.EndHour != 14 {
		t.Errorf("unexpected next block: %+v", report.Next)
	}
	if !report.FetchedAt.Equal(snaps.snap.FetchedAt) {
		t.Errorf("report must carry the snapshot age")
	}
}

func TestNextOutageWithoutData(t *testing.T) {
	addr := testAddress()
	store := &memConfigStore{cfg: model.UserConfig{Address: &addr, Monitoring: model.DefaultMonitoringConfig()}}

	svc := newTestService(&fakeFetcher{}, store, &memSnapshotStore{}, time.Now())
	if _, err := svc.NextOutage(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot for empty store, got %v", err)
	}

	// A snapshot without dated slots is as useless as none at all.
	snaps := &memSnapshotStore{snap: &model.ScheduleSnapshot{
		PossibleWeek: []model.OutageSlot{weeklyHour("Понеділок", 8)},
		FetchedAt:    time.Now(),
	}}
	svc = newTestService(&fakeFetcher{}, store, snaps, time.Now())
	if _, err := svc.NextOutage(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot for weekly-only snapshot, got %v", err)
	}
}

func TestOutagesForDay(t *testing.T) {
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)
	addr := testAddress()
	snaps := &memSnapshotStore{snap: &model.ScheduleSnapshot{
		Actual: []model.OutageSlot{
			actualHour("25.08.25", "Понеділок", 9, model.OutageDefinite),
			actualHour("26.08.25", "Вівторок", 9, model.OutageDefinite),
		},
		PossibleWeek: []model.OutageSlot{
			weeklyHour("Понеділок", 8),
			weeklyHour("Понеділок", 20),
			weeklyHour("Субота", 12),
		},
		FetchedAt: now,
	}}
	store := &memConfigStore{cfg: model.UserConfig{Address: &addr, Monitoring: model.DefaultMonitoringConfig()}}
	svc := newTestService(&fakeFetcher{}, store, snaps, now)

	report, err := svc.OutagesForDay("monday", model.KindPossibleWeek)
	if err != nil {
		t.Fatalf("OutagesForDay: %v", err)
	}
	if report.Day != "Понеділок" {
		t.Errorf("english alias not resolved, got %q", report.Day)
	}
	if len(report.Slots) != 2 {
		t.Fatalf("expected 2 weekly slots, got %d", len(report.Slots))
	}

	report, err = svc.OutagesForDay("Вівторок", model.KindActual)
	if err != nil {
		t.Fatalf("OutagesForDay actual: %v", err)
	}
	if len(report.Slots) != 1 || report.Slots[0].Date != "26.08.25" {
		t.Errorf("unexpected actual slots: %+v", report.Slots)
	}

	// A day with no entries is an empty report, not an error.
	report, err = svc.OutagesForDay("friday", model.KindActual)
	if err != nil {
		t.Fatalf("OutagesForDay empty day: %v", err)
	}
	if len(report.Slots) != 0 {
		t.Errorf("expected no slots, got %+v", report.Slots)
	}

	if _, err := svc.OutagesForDay("", model.KindActual); err == nil {
		t.Error("expected error for empty day")
	}
	if _, err := svc.OutagesForDay("monday", model.ScheduleKind("weekly")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestConfigureMonitoring(t *testing.T) {
	tracked := &model.TrackedOutage{Date: "20.08.25", StartHour: 12, EndHour: 14, NotifiedAboutStart: true}
	store := &memConfigStore{cfg: model.UserConfig{Monitoring: model.MonitoringConfig{
		Enabled:                   true,
		NotificationBeforeMinutes: 60,
		CheckIntervalMinutes:      60,
		TrackedOutage:             tracked,
	}}}
	svc := newTestService(&fakeFetcher{}, store, &memSnapshotStore{}, time.Now())

	// Unchanged settings keep the tracked outage.
	got, err := svc.ConfigureMonitoring(true, 60, 60)
	if err != nil {
		t.Fatalf("ConfigureMonitoring: %v", err)
	}
	if got.TrackedOutage == nil {
		t.Error("identical settings must keep tracking state")
	}

	// Any settings change drops it.
	got, err = svc.ConfigureMonitoring(true, 30, 60)
	if err != nil {
		t.Fatalf("ConfigureMonitoring change: %v", err)
	}
	if got.TrackedOutage != nil {
		t.Error("settings change must drop the tracked outage")
	}
	if store.cfg.Monitoring.NotificationBeforeMinutes != 30 {
		t.Errorf("settings not persisted: %+v", store.cfg.Monitoring)
	}

	if _, err := svc.ConfigureMonitoring(true, -1, 60); err == nil {
		t.Error("expected validation error for negative lead time")
	}
	if _, err := svc.ConfigureMonitoring(true, 60, 0); err == nil {
		t.Error("expected validation error for zero interval")
	}
}

func TestCheckUpcomingEmitsOnce(t *testing.T) {
	now := time.Date(2025, 8, 20, 17, 30, 0, 0, time.Local)
	today := now.Format(model.DateLayout)
	addr := testAddress()
	snaps := &memSnapshotStore{snap: &model.ScheduleSnapshot{
		Actual:    []model.OutageSlot{actualHour(today, "Середа", 18, model.OutageDefinite)},
		FetchedAt: now.Add(-5 * time.Minute),
	}}
	store := &memConfigStore{cfg: model.UserConfig{
		Address: &addr,
		Monitoring: model.MonitoringConfig{
			Enabled:                   true,
			NotificationBeforeMinutes: 60,
			CheckIntervalMinutes:      60,
		},
	}}
	channel := &recordChannel{name: "terminal"}
	svc := newTestService(&fakeFetcher{}, store, snaps, now, channel)

	report, err := svc.CheckUpcoming(context.Background())
	if err != nil {
		t.Fatalf("CheckUpcoming: %v", err)
	}
	if !report.Enabled || !report.FromCache {
		t.Errorf("unexpected report flags: %+v", report)
	}
	if report.Event == nil || report.Event.Kind != model.EventStartWarning {
		t.Fatalf("expected a start warning, got %+v", report.Event)
	}
	if report.Event.MinutesUntil != 30 {
		t.Errorf("expected 30 minutes of lead time, got %d", report.Event.MinutesUntil)
	}
	if report.Event.Address == "" {
		t.Error("event must carry the address")
	}
	if len(channel.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(channel.sent))
	}
	tracked := store.cfg.Monitoring.TrackedOutage
	if tracked == nil || !tracked.NotifiedAboutStart || tracked.StartHour != 18 {
		t.Fatalf("tracked outage not persisted: %+v", tracked)
	}

	// The persisted tracking state suppresses a duplicate warning.
	report, err = svc.CheckUpcoming(context.Background())
	if err != nil {
		t.Fatalf("second CheckUpcoming: %v", err)
	}
	if report.Event != nil {
		t.Errorf("duplicate warning emitted: %+v", report.Event)
	}
	if len(channel.sent) != 1 {
		t.Errorf("expected no second delivery, got %d", len(channel.sent))
	}
}

func TestCheckUpcomingDisabled(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &memConfigStore{cfg: model.DefaultUserConfig()}
	svc := newTestService(fetcher, store, &memSnapshotStore{}, time.Now())

	report, err := svc.CheckUpcoming(context.Background())
	if err != nil {
		t.Fatalf("CheckUpcoming: %v", err)
	}
	if report.Enabled || report.Event != nil {
		t.Errorf("disabled monitoring must be a no-op, got %+v", report)
	}
	if fetcher.calls != 0 {
		t.Errorf("disabled monitoring must not fetch, got %d calls", fetcher.calls)
	}
}

func TestBusNotifierNeverBlocks(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	bus.Subscribe() // nobody drains it
	n := busNotifier{bus: bus}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			_ = n.Send(context.Background(), model.NotificationEvent{ID: fmt.Sprint(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a draining subscriber")
	}
}
