package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/monitoring"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/timeline"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/watch"
)

var (
	// ErrNoAddress is returned by operations that need a configured address.
	ErrNoAddress = errors.New("no address configured, set one first")
	// ErrNoSnapshot is returned by cache-only lookups before the first
	// successful schedule check.
	ErrNoSnapshot = errors.New("no cached schedule, run a schedule check first")
)

// englishDays maps the English weekday names the CLI accepts onto positions
// in the provider's Monday-first day list.
var englishDays = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// SetAddress validates and persists the address every schedule lookup uses.
// The cached snapshot is left in place: it expires within the cache TTL and
// an explicit check refreshes it immediately.
func (s *Service) SetAddress(city, street, houseNumber string) (model.Address, error) {
	addr := model.Address{
		City:        strings.TrimSpace(city),
		Street:      strings.TrimSpace(street),
		HouseNumber: strings.TrimSpace(houseNumber),
	}
	if err := addr.Validate(); err != nil {
		return model.Address{}, err
	}
	cfg, err := s.loadUser()
	if err != nil {
		return model.Address{}, err
	}
	cfg.Address = &addr
	if err := s.store.Save(cfg); err != nil {
		return model.Address{}, fmt.Errorf("save config: %w", err)
	}
	s.log.Infof("address saved: %s", addr)
	return addr, nil
}

// ScheduleReport is the outcome of a schedule check.
type ScheduleReport struct {
	Address         model.Address
	Snapshot        model.ScheduleSnapshot
	FromCache       bool
	IncludePossible bool
}

// CheckSchedule returns a snapshot the governor considers current, fetching
// from the provider when the cache is too old or forceRefresh is set. The
// whole call is bounded by the fetcher timeout.
func (s *Service) CheckSchedule(ctx context.Context, includePossible, forceRefresh bool) (*ScheduleReport, error) {
	_, addr, err := s.requireAddress()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Fetcher.Timeout())
	defer cancel()
	snap, fromCache, err := s.governor.GetFresh(ctx, addr, forceRefresh)
	if err != nil {
		return nil, err
	}
	return &ScheduleReport{
		Address:         addr,
		Snapshot:        snap,
		FromCache:       fromCache,
		IncludePossible: includePossible,
	}, nil
}

// NextReport names the outage in progress, if any, and the next one ahead.
type NextReport struct {
	Address   model.Address
	Current   *model.OutageBlock
	Next      *model.OutageBlock
	FetchedAt time.Time
}

// NextOutage resolves the cached schedule against the wall clock. It never
// fetches: the answer reflects the last check, whose age the report carries.
func (s *Service) NextOutage() (*NextReport, error) {
	_, addr, err := s.requireAddress()
	if err != nil {
		return nil, err
	}
	snap, err := s.governor.Cached()
	if err != nil {
		return nil, err
	}
	if snap == nil || len(snap.Actual) == 0 {
		return nil, ErrNoSnapshot
	}
	current, next := timeline.Resolve(snap.Actual, s.clk.Now())
	return &NextReport{Address: addr, Current: current, Next: next, FetchedAt: snap.FetchedAt}, nil
}

// DayReport lists one day's outage slots of a single schedule kind.
type DayReport struct {
	Address   model.Address
	Day       string
	Kind      model.ScheduleKind
	Slots     []model.OutageSlot
	FetchedAt time.Time
}

// OutagesForDay filters the cached schedule by day of week. The day may be
// given in English or as the provider spells it; matching ignores case.
func (s *Service) OutagesForDay(day string, kind model.ScheduleKind) (*DayReport, error) {
	day = canonicalDay(day)
	if day == "" {
		return nil, fmt.Errorf("day of week is required")
	}
	if kind != model.KindActual && kind != model.KindPossibleWeek {
		return nil, fmt.Errorf("unknown schedule kind %q", kind)
	}
	_, addr, err := s.requireAddress()
	if err != nil {
		return nil, err
	}
	snap, err := s.governor.Cached()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	source := snap.Actual
	if kind == model.KindPossibleWeek {
		source = snap.PossibleWeek
	}
	var slots []model.OutageSlot
	for _, slot := range source {
		if slot.Kind == kind && strings.EqualFold(slot.DayOfWeek, day) {
			slots = append(slots, slot)
		}
	}
	return &DayReport{Address: addr, Day: day, Kind: kind, Slots: slots, FetchedAt: snap.FetchedAt}, nil
}

// ConfigureMonitoring persists new monitoring settings. Changing any setting
// drops the tracked outage, mirroring what the poll loop does on a reload:
// stale tracking state must not leak across a reconfiguration.
func (s *Service) ConfigureMonitoring(enabled bool, beforeMinutes, intervalMinutes int) (model.MonitoringConfig, error) {
	next := model.MonitoringConfig{
		Enabled:                   enabled,
		NotificationBeforeMinutes: beforeMinutes,
		CheckIntervalMinutes:      intervalMinutes,
	}
	if err := next.Validate(); err != nil {
		return model.MonitoringConfig{}, err
	}
	cfg, err := s.loadUser()
	if err != nil {
		return model.MonitoringConfig{}, err
	}
	if cfg.Monitoring.SettingsEqual(next) {
		next.TrackedOutage = cfg.Monitoring.TrackedOutage
	}
	cfg.Monitoring = next
	if err := s.store.Save(cfg); err != nil {
		return model.MonitoringConfig{}, fmt.Errorf("save config: %w", err)
	}
	state := "disabled"
	if next.Enabled {
		state = "enabled"
	}
	s.log.Infof("monitoring %s: notify %dm before outages, check every %dm", state, next.NotificationBeforeMinutes, next.CheckIntervalMinutes)
	return next, nil
}

// UpcomingReport is the outcome of a single monitoring pass.
type UpcomingReport struct {
	Enabled   bool
	FromCache bool
	Event     *model.NotificationEvent
}

// CheckUpcoming runs one monitoring cycle outside the daemon: refresh the
// schedule, evaluate the notification state machine and deliver whatever it
// emits. The tracked outage persisted from earlier runs keeps repeated
// invocations from re-alerting about the same start.
func (s *Service) CheckUpcoming(ctx context.Context) (*UpcomingReport, error) {
	cfg, err := s.loadUser()
	if err != nil {
		return nil, err
	}
	if !cfg.Monitoring.Enabled {
		return &UpcomingReport{}, nil
	}
	if cfg.Address == nil {
		return nil, ErrNoAddress
	}

	fctx, cancel := context.WithTimeout(ctx, s.cfg.Fetcher.Timeout())
	defer cancel()
	snap, fromCache, err := s.governor.GetFresh(fctx, *cfg.Address, false)
	if err != nil {
		return nil, err
	}

	notified := watch.NewNotifiedSet()
	if t := cfg.Monitoring.TrackedOutage; t != nil && t.NotifiedAboutStart {
		notified.Add(t.Key())
	}

	before := cfg.Monitoring.TrackedOutage
	ev, updated := watch.Tick(cfg.Monitoring, snap, notified, s.clk.Now())
	cfg.Monitoring = updated
	if !trackedEqual(before, updated.TrackedOutage) {
		if err := s.store.Save(cfg); err != nil {
			s.log.Errorf("config save failed: %v", err)
		}
	}

	if ev != nil {
		ev.Address = cfg.Address.String()
		if err := s.notifier.Send(ctx, *ev); err != nil {
			s.log.Errorf("notification delivery failed: %v", err)
			monitoring.CaptureMessage("notification delivery failed", map[string]string{"kind": string(ev.Kind)})
		}
	}
	return &UpcomingReport{Enabled: true, FromCache: fromCache, Event: ev}, nil
}

func (s *Service) loadUser() (model.UserConfig, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return model.UserConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (s *Service) requireAddress() (model.UserConfig, model.Address, error) {
	cfg, err := s.loadUser()
	if err != nil {
		return model.UserConfig{}, model.Address{}, err
	}
	if cfg.Address == nil {
		return model.UserConfig{}, model.Address{}, ErrNoAddress
	}
	return cfg, *cfg.Address, nil
}

// canonicalDay resolves CLI input to the provider's day name. English names
// are translated; anything else is matched against the grid as typed.
func canonicalDay(day string) string {
	day = strings.TrimSpace(day)
	if i, ok := englishDays[strings.ToLower(day)]; ok {
		return model.WeekDays()[i]
	}
	return day
}

func trackedEqual(a, b *model.TrackedOutage) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
