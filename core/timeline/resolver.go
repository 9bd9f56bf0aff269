// Package timeline turns the provider's hourly slot grid into continuous
// outage blocks and classifies them against a reference instant. Everything
// here is pure: no I/O, no clocks, no mutable state.
package timeline

import (
	"sort"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// Sanitize splits slots into well-formed and malformed per the grid
// contract. Callers log the dropped slots; resolution proceeds on the rest.
func Sanitize(slots []model.OutageSlot) (valid, dropped []model.OutageSlot) {
	for _, s := range slots {
		if err := s.Validate(); err != nil {
			dropped = append(dropped, s)
			continue
		}
		valid = append(valid, s)
	}
	return valid, dropped
}

// MergeBlocks folds contiguous same-day slots into blocks. Two slots merge
// when they share a date (or, for undated weekly slots, a day of week) and
// the second starts where the first ends. Outage type is informational, not
// a merge key: a block keeps the type of its first slot.
func MergeBlocks(slots []model.OutageSlot) []model.OutageBlock {
	if len(slots) == 0 {
		return nil
	}
	sorted := make([]model.OutageSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := slotDay(sorted[i]), slotDay(sorted[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if sorted[i].DayOfWeek != sorted[j].DayOfWeek {
			return dayIndex(sorted[i].DayOfWeek) < dayIndex(sorted[j].DayOfWeek)
		}
		return sorted[i].StartHour < sorted[j].StartHour
	})

	var blocks []model.OutageBlock
	cur := blockFromSlot(sorted[0])
	for _, s := range sorted[1:] {
		sameDay := s.Date == cur.Date && s.DayOfWeek == cur.DayOfWeek
		if sameDay && s.StartHour <= cur.EndHour {
			if s.EndHour > cur.EndHour {
				cur.EndHour = s.EndHour
			}
			continue
		}
		blocks = append(blocks, cur)
		cur = blockFromSlot(s)
	}
	return append(blocks, cur)
}

// Classification groups blocks by their temporal relation to a reference
// instant. FutureToday is ordered by start hour, FutureLater by date then
// start hour; blocks already over are discarded.
type Classification struct {
	Current     *model.OutageBlock
	FutureToday []model.OutageBlock
	FutureLater []model.OutageBlock
}

// Classify buckets dated blocks relative to now. A block whose window
// contains the current hour is current; one starting exactly on the current
// hour also counts as current, never future, so the boundary cannot flap.
func Classify(blocks []model.OutageBlock, now time.Time) Classification {
	var c Classification
	today := dayOf(now)
	hour := now.Hour()
	for i, b := range blocks {
		day, err := time.Parse(model.DateLayout, b.Date)
		if err != nil {
			continue
		}
		switch {
		case day.Equal(today):
			if b.Covers(hour) {
				blk := blocks[i]
				c.Current = &blk
			} else if b.StartHour > hour {
				c.FutureToday = append(c.FutureToday, b)
			}
		case day.After(today):
			c.FutureLater = append(c.FutureLater, b)
		}
	}
	sort.SliceStable(c.FutureToday, func(i, j int) bool {
		return c.FutureToday[i].StartHour < c.FutureToday[j].StartHour
	})
	sort.SliceStable(c.FutureLater, func(i, j int) bool {
		di, _ := time.Parse(model.DateLayout, c.FutureLater[i].Date)
		dj, _ := time.Parse(model.DateLayout, c.FutureLater[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return c.FutureLater[i].StartHour < c.FutureLater[j].StartHour
	})
	return c
}

// Resolve reports the outage in progress at now, if any, and the next future
// outage block. A current block is never returned as next: the next outage is
// the earliest block later today, or failing that the earliest block on a
// later date. Slots must be well-formed Actual entries (see Sanitize).
func Resolve(slots []model.OutageSlot, now time.Time) (current, next *model.OutageBlock) {
	c := Classify(MergeBlocks(slots), now)
	if c.Current != nil {
		// Report the type of the hour actually in progress, not of the
		// block's first slot.
		hour := now.Hour()
		for _, s := range slots {
			if s.Date == c.Current.Date && s.StartHour <= hour && hour < s.EndHour {
				c.Current.Type = s.Type
				break
			}
		}
	}
	switch {
	case len(c.FutureToday) > 0:
		next = &c.FutureToday[0]
	case len(c.FutureLater) > 0:
		next = &c.FutureLater[0]
	}
	return c.Current, next
}

// BlockByKey merges the slots and returns the block starting at the given
// date and hour, if announced.
func BlockByKey(slots []model.OutageSlot, key model.OutageKey) (model.OutageBlock, bool) {
	for _, b := range MergeBlocks(slots) {
		if b.Date == key.Date && b.StartHour == key.StartHour {
			return b, true
		}
	}
	return model.OutageBlock{}, false
}

func blockFromSlot(s model.OutageSlot) model.OutageBlock {
	return model.OutageBlock{
		Date:      s.Date,
		DayOfWeek: s.DayOfWeek,
		StartHour: s.StartHour,
		EndHour:   s.EndHour,
		Type:      s.Type,
	}
}

// dayIndex maps a day name to its Monday-first grid position; unknown names
// sort last.
func dayIndex(name string) int {
	for i, d := range model.WeekDays() {
		if d == name {
			return i
		}
	}
	return len(model.WeekDays())
}

func slotDay(s model.OutageSlot) time.Time {
	day, err := time.Parse(model.DateLayout, s.Date)
	if err != nil {
		return time.Time{}
	}
	return day
}

func dayOf(now time.Time) time.Time {
	day, _ := time.Parse(model.DateLayout, now.Format(model.DateLayout))
	return day
}
