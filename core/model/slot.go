package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by the provider grid and the
// persisted schedule cache, e.g. "14.11.25".
const DateLayout = "02.01.06"

// ScheduleKind distinguishes the committed dated grid from the recurring
// weekly forecast.
type ScheduleKind string

const (
	KindActual       ScheduleKind = "actual"
	KindPossibleWeek ScheduleKind = "possible_week"
)

// OutageType classifies a grid cell.
type OutageType string

const (
	OutageDefinite   OutageType = "definite"
	OutageFirstHalf  OutageType = "first_30min"
	OutageSecondHalf OutageType = "second_30min"
	OutagePossible   OutageType = "possible"
)

// OutageSlot is one cell of the provider grid: exactly one hour wide.
// Actual slots always carry a date; possible-week slots never do, since the
// weekly forecast repeats without committed dates.
type OutageSlot struct {
	Kind      ScheduleKind `json:"schedule_type"`
	DayOfWeek string       `json:"day_of_week"`
	Date      string       `json:"date,omitempty"`
	StartHour int          `json:"start_hour"`
	EndHour   int          `json:"end_hour"`
	Type      OutageType   `json:"outage_type"`
}

// Validate checks the slot against the grid contract.
func (s OutageSlot) Validate() error {
	if s.Kind != KindActual && s.Kind != KindPossibleWeek {
		return fmt.Errorf("unknown schedule kind %q", s.Kind)
	}
	if s.StartHour < 0 || s.StartHour > 23 {
		return fmt.Errorf("start hour %d out of range [0,23]", s.StartHour)
	}
	if s.EndHour < 1 || s.EndHour > 24 {
		return fmt.Errorf("end hour %d out of range [1,24]", s.EndHour)
	}
	if s.EndHour <= s.StartHour {
		return fmt.Errorf("end hour %d not after start hour %d", s.EndHour, s.StartHour)
	}
	if s.Kind == KindActual {
		if s.Date == "" {
			return fmt.Errorf("actual slot missing date")
		}
		if _, err := time.Parse(DateLayout, s.Date); err != nil {
			return fmt.Errorf("unparseable date %q: %w", s.Date, err)
		}
	}
	if s.Kind == KindPossibleWeek && s.Date != "" {
		return fmt.Errorf("possible-week slot carries date %q", s.Date)
	}
	return nil
}

// Day parses the slot's calendar date. Only meaningful for Actual slots.
func (s OutageSlot) Day() (time.Time, error) {
	return time.Parse(DateLayout, s.Date)
}

// Key identifies the outage this slot belongs to for deduplication purposes.
func (s OutageSlot) Key() OutageKey {
	return OutageKey{Date: s.Date, StartHour: s.StartHour}
}

func (s OutageSlot) String() string {
	datePart := ""
	if s.Date != "" {
		datePart = s.Date + " "
	}
	return fmt.Sprintf("%s%s %02d:00-%02d:00 (%s)", datePart, s.DayOfWeek, s.StartHour, s.EndHour, s.Type)
}

// OutageKey identifies one announced outage: calendar date plus start hour.
type OutageKey struct {
	Date      string `json:"date"`
	StartHour int    `json:"start_hour"`
}

func (k OutageKey) String() string {
	return fmt.Sprintf("%s@%02d:00", k.Date, k.StartHour)
}
