// Package nlp extracts calendar-event intents from free-form Dutch text.
//
// Matching is deliberately simple: fixed keyword lexicons and substring
// scans, first rule wins. A weekday word inside an unrelated title still
// triggers date resolution; that is accepted behavior, not a bug.
package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/planpal/planpal/internal/domain"
)

var (
	nextWeekRe = regexp.MustCompile(`volgende\s+week\s+(\w+)`)
	dayMonthRe = regexp.MustCompile(`(\d{1,2})\s+(\w+)`)
	clockRe    = regexp.MustCompile(`om\s+(\d{1,2}):(\d{2})`)
	hourRe     = regexp.MustCompile(`om\s+(\d{1,2})\s*uur`)
	halfRe     = regexp.MustCompile(`om\s+half\s+(\d{1,2})`)
)

// titleStrippers remove every date/time phrase the resolvers understand.
// Applied in order against the original (non-lowered) input.
var titleStrippers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)om\s+\d{1,2}:\d{2}`),
	regexp.MustCompile(`(?i)om\s+\d{1,2}\s*uur`),
	regexp.MustCompile(`(?i)om\s+half\s+\d{1,2}`),
	regexp.MustCompile(`(?i)'s\s*ochtends`),
	regexp.MustCompile(`(?i)s\s*ochtends`),
	regexp.MustCompile(`(?i)'s\s*middags`),
	regexp.MustCompile(`(?i)s\s*middags`),
	regexp.MustCompile(`(?i)'s\s*avonds`),
	regexp.MustCompile(`(?i)s\s*avonds`),
	regexp.MustCompile(`(?i)\bvandaag\b`),
	regexp.MustCompile(`(?i)\bovermorgen\b`),
	regexp.MustCompile(`(?i)\bmorgen\b`),
	regexp.MustCompile(`(?i)volgende\s+week\s+\w+`),
	regexp.MustCompile(`(?i)\b(maandag|dinsdag|woensdag|donderdag|vrijdag|zaterdag|zondag)\b`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(januari|februari|maart|april|mei|juni|juli|augustus|september|oktober|november|december|jan|feb|mrt|apr|jun|jul|aug|sep|okt|nov|dec)`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Parse extracts an event intent from text. The reference time now drives
// all relative-date math; the returned bool is false when no date could be
// resolved, in which case time and title are never computed.
func Parse(text string, now time.Time) (*domain.ParsedIntent, bool) {
	date, ok := resolveDate(text, now)
	if !ok {
		return nil, false
	}

	tm, ok := resolveTime(text)
	if !ok {
		tm = "12:00"
	}

	return &domain.ParsedIntent{
		Date:  date,
		Time:  tm,
		Title: extractTitle(text),
	}, true
}

// resolveDate scans the lowercased input for date phrases, in priority
// order. The result is a midnight timestamp in now's location.
func resolveDate(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "vandaag") {
		return midnight(now), true
	}

	if strings.Contains(lower, "morgen") && !strings.Contains(lower, "overmorgen") {
		return midnight(now.AddDate(0, 0, 1)), true
	}

	if strings.Contains(lower, "overmorgen") {
		return midnight(now.AddDate(0, 0, 2)), true
	}

	// "volgende week maandag" forces the named weekday into next week.
	if m := nextWeekRe.FindStringSubmatch(lower); m != nil {
		if wd, ok := weekdayByName(m[1]); ok {
			return nextWeekday(now, wd, true), true
		}
	}

	// Bare weekday anywhere in the text, lexicon order zondag..zaterdag.
	for i, name := range weekdayNames {
		if strings.Contains(lower, name) {
			return nextWeekday(now, time.Weekday(i), false), true
		}
	}

	// "15 januari", "3 feb". Only the first number+word pair is considered.
	if m := dayMonthRe.FindStringSubmatch(lower); m != nil {
		if month, ok := monthByName(m[2]); ok {
			day, _ := strconv.Atoi(m[1])
			candidate := time.Date(now.Year(), month, day,
				now.Hour(), now.Minute(), now.Second(), 0, now.Location())
			if candidate.Before(now) {
				candidate = candidate.AddDate(1, 0, 0)
			}
			return midnight(candidate), true
		}
	}

	return time.Time{}, false
}

// nextWeekday returns the next occurrence of wd after now. A bare weekday
// never resolves to today: daysUntil <= 0 rolls a full week, as does the
// explicit next-week form.
func nextWeekday(now time.Time, wd time.Weekday, nextWeek bool) time.Time {
	daysUntil := int(wd) - int(now.Weekday())
	if daysUntil <= 0 || nextWeek {
		daysUntil += 7
	}
	return midnight(now.AddDate(0, 0, daysUntil))
}

// resolveTime scans for time phrases, in priority order. It reports
// no-match rather than a default; Parse applies "12:00".
func resolveTime(text string) (string, bool) {
	lower := strings.ToLower(text)

	// "om 14:00", "om 9:30"
	if m := clockRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2]), true
	}

	// "om 14 uur", "om 9 uur"
	if m := hourRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:00", hour), true
	}

	// "om half 3" means half past two; assume afternoon below 7.
	if m := halfRe.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		hour--
		if hour < 0 {
			hour = 23
		}
		if hour < 7 {
			hour += 12
		}
		return fmt.Sprintf("%02d:30", hour), true
	}

	if strings.Contains(lower, "'s ochtends") || strings.Contains(lower, "s ochtends") {
		return "09:00", true
	}

	if strings.Contains(lower, "'s middags") || strings.Contains(lower, "s middags") {
		return "14:00", true
	}

	if strings.Contains(lower, "'s avonds") || strings.Contains(lower, "s avonds") {
		return "19:00", true
	}

	return "", false
}

// extractTitle removes all recognized date/time phrases from the input and
// normalizes whitespace. An empty remainder becomes the placeholder title.
func extractTitle(text string) string {
	title := text
	for _, re := range titleStrippers {
		title = re.ReplaceAllString(title, "")
	}

	title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))
	if title == "" {
		return domain.DefaultTitle
	}
	return title
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
