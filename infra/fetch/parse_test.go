package fetch

import (
	"testing"
	"time"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

func TestOutageTypeFromClass(t *testing.T) {
	cases := []struct {
		class  string
		want   model.OutageType
		outage bool
	}{
		{"cell-scheduled", model.OutageDefinite, true},
		{"cell cell-scheduled dark", model.OutageDefinite, true},
		{"cell-first-half", model.OutageFirstHalf, true},
		{"cell-second-half", model.OutageSecondHalf, true},
		{"cell-scheduled-maybe", model.OutagePossible, true},
		{"cell-non-scheduled", "", false},
		{"cell", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, outage := outageTypeFromClass(c.class)
		if outage != c.outage || got != c.want {
			t.Errorf("class %q: got (%q, %v), want (%q, %v)", c.class, got, outage, c.want, c.outage)
		}
	}
}

func TestParseHourRange(t *testing.T) {
	cases := []struct {
		text       string
		start, end int
		ok         bool
	}{
		{"13-14", 13, 14, true},
		{" 00-01 ", 0, 1, true},
		{"23-00", 23, 24, true},
		{"23-24", 23, 24, true},
		{"Доба", 0, 0, false},
		{"", 0, 0, false},
		{"14-13", 0, 0, false},
	}
	for _, c := range cases {
		start, end, ok := parseHourRange(c.text)
		if start != c.start || end != c.end || ok != c.ok {
			t.Errorf("parseHourRange(%q) = (%d, %d, %v), want (%d, %d, %v)",
				c.text, start, end, ok, c.start, c.end, c.ok)
		}
	}
}

func TestResolveDayLabel(t *testing.T) {
	// 21.08.2025 is a Thursday.
	now := time.Date(2025, 8, 21, 10, 0, 0, 0, time.Local)
	cases := []struct {
		text string
		want string
	}{
		{"Сьогодні 21.08.25", "Четвер"},
		{"завтра 22.08.25", "П'ятниця"},
		{"22.08.25", ""},
	}
	for _, c := range cases {
		if got := resolveDayLabel(c.text, now); got != c.want {
			t.Errorf("resolveDayLabel(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestDayNameForWeekWrap(t *testing.T) {
	// 24.08.2025 is a Sunday; the Monday-first table puts it last.
	sunday := time.Date(2025, 8, 24, 12, 0, 0, 0, time.Local)
	if got := dayNameFor(sunday); got != "Неділя" {
		t.Errorf("dayNameFor(sunday) = %q", got)
	}
	if got := dayNameFor(sunday.AddDate(0, 0, 1)); got != "Понеділок" {
		t.Errorf("dayNameFor(monday) = %q", got)
	}
}

func TestDayNameInText(t *testing.T) {
	if day, ok := dayNameInText("Понеділок 25.08"); !ok || day != "Понеділок" {
		t.Errorf("got (%q, %v)", day, ok)
	}
	if _, ok := dayNameInText("графік"); ok {
		t.Errorf("expected no day name")
	}
}

func TestGridSlots(t *testing.T) {
	headers := []string{"12-13", "13-14", "14-15", "15-16"}
	classes := []string{"cell-non-scheduled", "cell-scheduled", "cell-scheduled-maybe", "cell-first-half"}

	slots := gridSlots(model.KindActual, "Четвер", "21.08.25", headers, classes)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d: %+v", len(slots), slots)
	}
	want := []model.OutageSlot{
		{Kind: model.KindActual, DayOfWeek: "Четвер", Date: "21.08.25", StartHour: 13, EndHour: 14, Type: model.OutageDefinite},
		{Kind: model.KindActual, DayOfWeek: "Четвер", Date: "21.08.25", StartHour: 14, EndHour: 15, Type: model.OutagePossible},
		{Kind: model.KindActual, DayOfWeek: "Четвер", Date: "21.08.25", StartHour: 15, EndHour: 16, Type: model.OutageFirstHalf},
	}
	for i, w := range want {
		if slots[i] != w {
			t.Errorf("slot %d: got %+v, want %+v", i, slots[i], w)
		}
	}
}

// Extra cells beyond the parsed header intervals must not panic or emit
// slots with garbage hours.
func TestGridSlotsRaggedRow(t *testing.T) {
	headers := []string{"12-13"}
	classes := []string{"cell-scheduled", "cell-scheduled"}
	slots := gridSlots(model.KindPossibleWeek, "Субота", "", headers, classes)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].StartHour != 12 || slots[0].EndHour != 13 || slots[0].Date != "" {
		t.Errorf("unexpected slot: %+v", slots[0])
	}
}

func TestGridSlotsSkipsUnparsedHeaders(t *testing.T) {
	slots := gridSlots(model.KindActual, "Четвер", "21.08.25", []string{"Доба"}, []string{"cell-scheduled"})
	if len(slots) != 0 {
		t.Errorf("expected no slots for unparsable header, got %+v", slots)
	}
}
