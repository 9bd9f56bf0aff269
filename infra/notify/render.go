package notify

import (
	"fmt"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// TypeLabel returns the human wording for an outage type.
func TypeLabel(t model.OutageType) string {
	switch t {
	case model.OutageDefinite:
		return "power off"
	case model.OutageFirstHalf:
		return "off during the first half of each hour"
	case model.OutageSecondHalf:
		return "off during the second half of each hour"
	case model.OutagePossible:
		return "possible outage"
	}
	return string(t)
}

// Render produces the title and body for a notification event. Every
// channel shares this wording so an alert reads the same everywhere.
func Render(ev model.NotificationEvent) (title, body string) {
	switch ev.Kind {
	case model.EventStartWarning:
		title = "⚠️  UPCOMING POWER OUTAGE"
		body = fmt.Sprintf(
			"⏰ Outage in %d minutes!\n"+
				"🕐 Time: %s\n"+
				"📍 Type: %s\n"+
				"🏠 Address: %s\n"+
				"\n💡 Prepare now: charge devices, save work!",
			ev.MinutesUntil, hourRange(ev.StartHour, ev.EndHour), TypeLabel(ev.Type), ev.Address)
	case model.EventCancellation:
		title = "✅ OUTAGE CANCELLED"
		body = fmt.Sprintf(
			"🕐 Was planned: %s\n"+
				"📅 Date: %s\n"+
				"🏠 Address: %s\n"+
				"\n💡 The provider removed this outage from the schedule.",
			hourRange(ev.StartHour, ev.EndHour), ev.Date, ev.Address)
	case model.EventExtension:
		title = "⚠️  OUTAGE EXTENDED"
		body = fmt.Sprintf(
			"🕐 New end time: %02d:00 (was %02d:00)\n"+
				"📅 Date: %s\n"+
				"🏠 Address: %s\n"+
				"\n💡 Power will stay off longer than planned.",
			ev.EndHour, ev.PrevEndHour, ev.Date, ev.Address)
	case model.EventShortening:
		title = "✅ OUTAGE SHORTENED"
		body = fmt.Sprintf(
			"🕐 New end time: %02d:00 (was %02d:00)\n"+
				"📅 Date: %s\n"+
				"🏠 Address: %s\n"+
				"\n💡 Power should return earlier than planned.",
			ev.EndHour, ev.PrevEndHour, ev.Date, ev.Address)
	default:
		title = "🔄 OUTAGE SCHEDULE UPDATE"
		body = fmt.Sprintf("🕐 Time: %s\n📅 Date: %s\n🏠 Address: %s",
			hourRange(ev.StartHour, ev.EndHour), ev.Date, ev.Address)
	}
	return title, body
}

func hourRange(start, end int) string {
	return fmt.Sprintf("%02d:00-%02d:00", start, end)
}
