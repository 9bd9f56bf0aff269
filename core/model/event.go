package model

import "time"

// EventKind names the notification variants the state machine can emit.
type EventKind string

const (
	// EventStartWarning fires once when an outage enters the configured
	// lead-time window.
	EventStartWarning EventKind = "start_warning"
	// EventCancellation fires when the tracked outage disappears from a
	// refreshed schedule shortly before its announced restoration.
	EventCancellation EventKind = "cancellation"
	// EventExtension fires when the tracked outage's restoration moves later.
	EventExtension EventKind = "extension"
	// EventShortening fires when the tracked outage's restoration moves earlier.
	EventShortening EventKind = "shortening"
)

// NotificationEvent is one outbound alert, fanned out to every configured
// channel exactly as produced.
type NotificationEvent struct {
	ID           string     `json:"id"`
	Kind         EventKind  `json:"kind"`
	Address      string     `json:"address,omitempty"`
	Date         string     `json:"date"`
	DayOfWeek    string     `json:"day_of_week,omitempty"`
	StartHour    int        `json:"start_hour"`
	EndHour      int        `json:"end_hour"`
	PrevEndHour  int        `json:"previous_end_hour,omitempty"`
	MinutesUntil int        `json:"minutes_until,omitempty"`
	Type         OutageType `json:"outage_type,omitempty"`
	EmittedAt    time.Time  `json:"emitted_at"`
}

// Key identifies the outage the event refers to.
func (e NotificationEvent) Key() OutageKey {
	return OutageKey{Date: e.Date, StartHour: e.StartHour}
}
