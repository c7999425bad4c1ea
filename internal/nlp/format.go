package nlp

import (
	"fmt"
	"time"
)

// FormatLongDate renders a date the way nl-NL long form does:
// "donderdag 11 januari 2024". Display only; the parser never reads it back.
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d",
		WeekdayName(t.Weekday()), t.Day(), MonthName(t.Month()), t.Year())
}
