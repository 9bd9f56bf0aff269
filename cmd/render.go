package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/app"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/notify"
)

const updatedLayout = "02.01.2006 15:04"

func renderSchedule(r *app.ScheduleReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Address: %s\n", r.Address)
	source := "fetched from provider"
	if r.FromCache {
		source = "cache"
	}
	fmt.Fprintf(&b, "Source:  %s\n", source)
	fmt.Fprintf(&b, "Updated: %s\n\n", r.Snapshot.FetchedAt.Format(updatedLayout))

	rule := strings.Repeat("=", 50)
	b.WriteString(rule + "\nCONFIRMED OUTAGES (today/tomorrow)\n" + rule + "\n\n")
	if len(r.Snapshot.Actual) == 0 {
		b.WriteString("No confirmed outages found.\n\n")
	} else {
		fmt.Fprintf(&b, "Outage hours in total: %d\n\n", len(r.Snapshot.Actual))
		for _, date := range actualDates(r.Snapshot.Actual) {
			slots := slotsForDate(r.Snapshot.Actual, date)
			fmt.Fprintf(&b, "%s (%s):\n", date, slots[0].DayOfWeek)
			for _, line := range typeCounts(slots) {
				b.WriteString("  " + line + "\n")
			}
			b.WriteString("\n")
		}
	}

	if r.IncludePossible {
		b.WriteString(rule + "\nWEEKLY FORECAST (possible outages)\n" + rule + "\n\n")
		if len(r.Snapshot.PossibleWeek) == 0 {
			b.WriteString("No forecast found.\n\n")
		} else {
			fmt.Fprintf(&b, "Possible outage hours in total: %d\n\n", len(r.Snapshot.PossibleWeek))
			counts := make(map[string]int)
			for _, s := range r.Snapshot.PossibleWeek {
				counts[s.DayOfWeek]++
			}
			for _, day := range model.WeekDays() {
				if n := counts[day]; n > 0 {
					fmt.Fprintf(&b, "  %s: %d hours\n", day, n)
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("Run \"blackout-tracker next\" for the nearest outage,\n")
	b.WriteString("or \"blackout-tracker day <day>\" for one day in detail.\n")
	return b.String()
}

func renderNext(r *app.NextReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Address: %s\n\n", r.Address)
	if r.Current == nil && r.Next == nil {
		b.WriteString("No upcoming outages in the cached schedule.\n")
	}
	if r.Current != nil {
		fmt.Fprintf(&b, "Ongoing outage: %s %s %s (%s), power back by %02d:00\n",
			r.Current.DayOfWeek, r.Current.Date, r.Current.TimeRange(), notify.TypeLabel(r.Current.Type), r.Current.EndHour)
	}
	if r.Next != nil {
		fmt.Fprintf(&b, "Next outage: %s %s %s (%s)\n",
			r.Next.DayOfWeek, r.Next.Date, r.Next.TimeRange(), notify.TypeLabel(r.Next.Type))
	}
	fmt.Fprintf(&b, "\nSchedule updated: %s\n", r.FetchedAt.Format(updatedLayout))
	return b.String()
}

func renderDay(r *app.DayReport) string {
	var b strings.Builder
	kind := "confirmed schedule"
	if r.Kind == model.KindPossibleWeek {
		kind = "weekly forecast"
	}
	fmt.Fprintf(&b, "Address: %s\n", r.Address)
	fmt.Fprintf(&b, "Day:     %s\n", r.Day)
	fmt.Fprintf(&b, "Kind:    %s\n\n", kind)
	if len(r.Slots) == 0 {
		fmt.Fprintf(&b, "No outages found for %s.\n", r.Day)
	} else {
		fmt.Fprintf(&b, "Outage slots (%d):\n", len(r.Slots))
		for _, s := range r.Slots {
			date := ""
			if s.Date != "" {
				date = s.Date + " "
			}
			fmt.Fprintf(&b, "  %s%02d:00-%02d:00  %s\n", date, s.StartHour, s.EndHour, notify.TypeLabel(s.Type))
		}
	}
	fmt.Fprintf(&b, "\nSchedule updated: %s\n", r.FetchedAt.Format(updatedLayout))
	return b.String()
}

func renderMonitoring(m model.MonitoringConfig) string {
	if !m.Enabled {
		return "Monitoring disabled.\n"
	}
	return fmt.Sprintf("Monitoring enabled: notify %d minutes before an outage, check every %d minutes.\n"+
		"Run \"blackout-tracker monitor\" to start the daemon.\n",
		m.NotificationBeforeMinutes, m.CheckIntervalMinutes)
}

func renderUpcoming(r *app.UpcomingReport) string {
	if !r.Enabled {
		return "Monitoring is disabled; nothing checked. Enable it with \"blackout-tracker configure\".\n"
	}
	source := "fetched from provider"
	if r.FromCache {
		source = "served from cache"
	}
	if r.Event == nil {
		return fmt.Sprintf("Schedule checked (%s). Nothing due: no outage inside the warning window, no schedule drift.\n", source)
	}
	return fmt.Sprintf("Schedule checked (%s). Notification emitted: %s for %s %02d:00-%02d:00.\n",
		source, r.Event.Kind, r.Event.Date, r.Event.StartHour, r.Event.EndHour)
}

// actualDates returns the distinct slot dates in calendar order.
func actualDates(slots []model.OutageSlot) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, s := range slots {
		if !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool {
		di, erri := time.Parse(model.DateLayout, dates[i])
		dj, errj := time.Parse(model.DateLayout, dates[j])
		if erri != nil || errj != nil {
			return dates[i] < dates[j]
		}
		return di.Before(dj)
	})
	return dates
}

func slotsForDate(slots []model.OutageSlot, date string) []model.OutageSlot {
	var out []model.OutageSlot
	for _, s := range slots {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// typeCounts summarizes one day's slots per outage type, in legend order.
func typeCounts(slots []model.OutageSlot) []string {
	counts := make(map[model.OutageType]int)
	for _, s := range slots {
		counts[s.Type]++
	}
	order := []model.OutageType{model.OutageDefinite, model.OutageFirstHalf, model.OutageSecondHalf, model.OutagePossible}
	var lines []string
	for _, t := range order {
		if n := counts[t]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", notify.TypeLabel(t), n))
		}
	}
	return lines
}
