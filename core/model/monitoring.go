package model

import "fmt"

// TrackedOutage is the single outage block under drift surveillance. Created
// when a start warning fires, cleared once its restoration time passes, it
// disappears from a refreshed snapshot, or monitoring is reconfigured.
type TrackedOutage struct {
	Date                string `json:"date"`
	StartHour           int    `json:"start_hour"`
	EndHour             int    `json:"end_hour"`
	NotifiedAboutStart  bool   `json:"notified_about_start"`
	NotifiedAboutChange bool   `json:"notified_about_change"`
}

// Key identifies the tracked outage in snapshots and the notified set.
func (t TrackedOutage) Key() OutageKey {
	return OutageKey{Date: t.Date, StartHour: t.StartHour}
}

// MonitoringConfig holds the user's notification settings plus the currently
// tracked outage. Mutated only by explicit configuration calls and by the
// notification state machine; persisted so it survives restarts.
type MonitoringConfig struct {
	Enabled                   bool           `json:"enabled"`
	NotificationBeforeMinutes int            `json:"notification_before_minutes"`
	CheckIntervalMinutes      int            `json:"check_interval_minutes"`
	TrackedOutage             *TrackedOutage `json:"tracked_outage,omitempty"`
}

// DefaultMonitoringConfig returns the settings applied before the user has
// configured anything: monitoring off, hourly checks, an hour of lead time.
func DefaultMonitoringConfig() MonitoringConfig {
	return MonitoringConfig{
		Enabled:                   false,
		NotificationBeforeMinutes: 60,
		CheckIntervalMinutes:      60,
	}
}

// Validate checks the user-settable fields.
func (c MonitoringConfig) Validate() error {
	if c.NotificationBeforeMinutes < 0 {
		return fmt.Errorf("notification lead time must not be negative, got %d", c.NotificationBeforeMinutes)
	}
	if c.CheckIntervalMinutes < 1 {
		return fmt.Errorf("check interval must be at least 1 minute, got %d", c.CheckIntervalMinutes)
	}
	return nil
}

// SettingsEqual compares the user-settable fields, ignoring the tracked
// outage. The poll loop uses it to detect configuration changes.
func (c MonitoringConfig) SettingsEqual(other MonitoringConfig) bool {
	return c.Enabled == other.Enabled &&
		c.NotificationBeforeMinutes == other.NotificationBeforeMinutes &&
		c.CheckIntervalMinutes == other.CheckIntervalMinutes
}
