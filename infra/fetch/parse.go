package fetch

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// dayNameFor returns the provider's day name for t. The grid is Monday-first
// while time.Weekday is Sunday-first, hence the rotation.
func dayNameFor(t time.Time) string {
	return model.WeekDays()[(int(t.Weekday())+6)%7]
}

// resolveDayLabel maps the active date-tab label to a Ukrainian day name.
// The tab says "сьогодні" or "завтра" instead of naming the day.
func resolveDayLabel(text string, now time.Time) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "сьогодні"):
		return dayNameFor(now)
	case strings.Contains(lower, "завтра"):
		return dayNameFor(now.AddDate(0, 0, 1))
	}
	return ""
}

// dayNameInText picks the day name out of a weekly row label such as
// "Понеділок 25.08".
func dayNameInText(text string) (string, bool) {
	for _, day := range model.WeekDays() {
		if strings.Contains(text, day) {
			return day, true
		}
	}
	return "", false
}

var hourRangeRe = regexp.MustCompile(`(\d{2})-(\d{2})`)

// parseHourRange extracts start and end hours from a header cell such as
// "13-14". A "00" end means midnight and maps to 24 so ranges stay ordered.
func parseHourRange(text string) (int, int, bool) {
	m := hourRangeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end == 0 {
		end = 24
	}
	if start < 0 || start > 23 || end < 1 || end > 24 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// outageTypeFromClass maps a cell's class attribute to an outage type. The
// second return is false for cells that mean power stays on.
func outageTypeFromClass(classAttr string) (model.OutageType, bool) {
	switch {
	case strings.Contains(classAttr, "cell-non-scheduled"):
		return "", false
	case strings.Contains(classAttr, "cell-scheduled-maybe"):
		return model.OutagePossible, true
	case strings.Contains(classAttr, "cell-first-half"):
		return model.OutageFirstHalf, true
	case strings.Contains(classAttr, "cell-second-half"):
		return model.OutageSecondHalf, true
	case strings.Contains(classAttr, "cell-scheduled"):
		return model.OutageDefinite, true
	}
	return "", false
}

// gridSlots pairs header hour ranges with the data cells of one table row
// and emits a slot for every cell whose class marks an outage. Headers and
// cells must already be trimmed of their leading label columns.
func gridSlots(kind model.ScheduleKind, dayOfWeek, date string, headers, cellClasses []string) []model.OutageSlot {
	intervals := make([][2]int, 0, len(headers))
	for _, h := range headers {
		if start, end, ok := parseHourRange(h); ok {
			intervals = append(intervals, [2]int{start, end})
		}
	}

	var slots []model.OutageSlot
	for i, cls := range cellClasses {
		if i >= len(intervals) {
			break
		}
		typ, ok := outageTypeFromClass(cls)
		if !ok {
			continue
		}
		slots = append(slots, model.OutageSlot{
			Kind:      kind,
			DayOfWeek: dayOfWeek,
			Date:      date,
			StartHour: intervals[i][0],
			EndHour:   intervals[i][1],
			Type:      typ,
		})
	}
	return slots
}
