package model

import "fmt"

// OutageBlock is a maximal run of contiguous same-day slots, the unit users
// think of as "one outage". Built by the timeline resolver; never persisted.
type OutageBlock struct {
	Date      string
	DayOfWeek string
	StartHour int
	EndHour   int
	Type      OutageType
}

// Key identifies the block for deduplication and drift tracking.
func (b OutageBlock) Key() OutageKey {
	return OutageKey{Date: b.Date, StartHour: b.StartHour}
}

// Covers reports whether the given hour falls inside [StartHour, EndHour).
func (b OutageBlock) Covers(hour int) bool {
	return hour >= b.StartHour && hour < b.EndHour
}

// MinutesUntilStart returns the whole minutes from now until the block's
// start, negative once the start has passed. Meaningful only when the block
// is dated today.
func (b OutageBlock) MinutesUntilStart(hour, minute int) int {
	return (b.StartHour-hour)*60 - minute
}

// MinutesUntilEnd returns the whole minutes from now until restoration,
// negative once the end has passed. Meaningful only when dated today.
func (b OutageBlock) MinutesUntilEnd(hour, minute int) int {
	return (b.EndHour-hour)*60 - minute
}

// TimeRange renders the block bounds as "13:00-20:00".
func (b OutageBlock) TimeRange() string {
	return fmt.Sprintf("%02d:00-%02d:00", b.StartHour, b.EndHour)
}

func (b OutageBlock) String() string {
	datePart := ""
	if b.Date != "" {
		datePart = b.Date + " "
	}
	return fmt.Sprintf("%s%s (%s)", datePart, b.TimeRange(), b.Type)
}
