package model

// WeekDays lists the provider's day-of-week names in grid order, Monday
// first. Slot DayOfWeek values use these exact spellings.
func WeekDays() [7]string {
	return [7]string{"Понеділок", "Вівторок", "Середа", "Четвер", "П'ятниця", "Субота", "Неділя"}
}
