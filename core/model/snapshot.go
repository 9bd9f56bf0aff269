package model

import "time"

// ScheduleSnapshot bundles everything one successful fetch produced. A
// refresh replaces the whole snapshot; nothing mutates one in place.
type ScheduleSnapshot struct {
	Actual       []OutageSlot `json:"actual_schedules"`
	PossibleWeek []OutageSlot `json:"possible_schedules"`
	FetchedAt    time.Time    `json:"last_updated"`
}

// Age reports how old the snapshot is at the given instant.
func (s ScheduleSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Empty reports whether the snapshot carries no slots at all.
func (s ScheduleSnapshot) Empty() bool {
	return len(s.Actual) == 0 && len(s.PossibleWeek) == 0
}

// Clone returns a deep copy so callers can hold a snapshot without sharing
// slice backing arrays with the store's copy.
func (s ScheduleSnapshot) Clone() ScheduleSnapshot {
	out := ScheduleSnapshot{FetchedAt: s.FetchedAt}
	if len(s.Actual) > 0 {
		out.Actual = make([]OutageSlot, len(s.Actual))
		copy(out.Actual, s.Actual)
	}
	if len(s.PossibleWeek) > 0 {
		out.PossibleWeek = make([]OutageSlot, len(s.PossibleWeek))
		copy(out.PossibleWeek, s.PossibleWeek)
	}
	return out
}
