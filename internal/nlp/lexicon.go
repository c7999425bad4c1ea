package nlp

import "time"

// weekdayNames is indexed by time.Weekday (Sunday = 0).
var weekdayNames = []string{
	"zondag",
	"maandag",
	"dinsdag",
	"woensdag",
	"donderdag",
	"vrijdag",
	"zaterdag",
}

// monthNames is indexed by time.Month - 1.
var monthNames = []string{
	"januari",
	"februari",
	"maart",
	"april",
	"mei",
	"juni",
	"juli",
	"augustus",
	"september",
	"oktober",
	"november",
	"december",
}

// monthAbbrevs maps the accepted three-letter abbreviations. "mei" has none.
var monthAbbrevs = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mrt": time.March,
	"apr": time.April,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"okt": time.October,
	"nov": time.November,
	"dec": time.December,
}

func weekdayByName(name string) (time.Weekday, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

func monthByName(name string) (time.Month, bool) {
	for i, n := range monthNames {
		if n == name {
			return time.Month(i + 1), true
		}
	}
	if m, ok := monthAbbrevs[name]; ok {
		return m, true
	}
	return 0, false
}

// WeekdayName returns the lowercase Dutch name of a weekday.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// MonthName returns the lowercase Dutch name of a month.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}
