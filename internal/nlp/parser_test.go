package nlp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference clock for all tests: Wednesday 10 January 2024, 10:00.
var testNow = time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateResolution(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"vandaag boodschappen", date(2024, time.January, 10)},
		{"morgen om 14:00 meeting", date(2024, time.January, 11)},
		{"overmorgen vergadering", date(2024, time.January, 12)},
		{"Morgenavond eten", date(2024, time.January, 11)},
		{"volgende week maandag vergadering", date(2024, time.January, 15)},
		{"volgende week vrijdag borrel", date(2024, time.January, 19)},
		{"volgende week woensdag standup", date(2024, time.January, 17)},
		{"vrijdag lunch", date(2024, time.January, 12)},
		{"donderdag sporten", date(2024, time.January, 11)},
		// Today's weekday resolves a full week out, never today.
		{"woensdag afspraak", date(2024, time.January, 17)},
		{"zondag brunch", date(2024, time.January, 14)},
		{"15 januari tandarts", date(2024, time.January, 15)},
		{"3 feb verjaardag", date(2024, time.February, 3)},
		// A passed calendar date rolls into next year.
		{"5 januari etentje", date(2025, time.January, 5)},
		// Today's own date does not roll.
		{"10 januari deadline", date(2024, time.January, 10)},
		// Substring matching is accepted behavior, also inside other words.
		{"het maandag-rapport afronden", date(2024, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, ok := Parse(tt.input, testNow)
			require.True(t, ok, "expected a resolved date")
			assert.Equal(t, tt.want, intent.Date)
		})
	}
}

func TestParseNoDate(t *testing.T) {
	for _, input := range []string{
		"blah blah",
		"om 14:00 meeting",      // time without date
		"13 uur vergaderen",     // "uur" is not a month
		"volgende week iets",    // unknown weekday, no bare weekday either
		"",
	} {
		intent, ok := Parse(input, testNow)
		assert.False(t, ok, "input %q should not resolve", input)
		assert.Nil(t, intent)
	}
}

func TestParseOvermorgenNeverMorgen(t *testing.T) {
	// Anything containing "overmorgen" resolves two days out, never one.
	for _, input := range []string{
		"overmorgen",
		"overmorgen om 9 uur kapper",
		"lunch overmorgen",
	} {
		intent, ok := Parse(input, testNow)
		require.True(t, ok)
		assert.Equal(t, date(2024, time.January, 12), intent.Date, "input %q", input)
	}
}

func TestParseBareWeekdayNeverToday(t *testing.T) {
	// For every weekday name the resolved date is strictly in the future.
	for i, name := range weekdayNames {
		intent, ok := Parse(name+" afspraak", testNow)
		require.True(t, ok)
		assert.True(t, intent.Date.After(midnight(testNow)), "weekday %s", name)
		assert.Equal(t, time.Weekday(i), intent.Date.Weekday())
	}
}

func TestResolveTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"morgen om 14:00 meeting", "14:00", true},
		{"morgen om 9:30 meeting", "09:30", true},
		{"om 14 uur", "14:00", true},
		{"om 9uur", "09:00", true},
		{"om half 3", "14:30", true},
		{"om half 8", "07:30", true},
		{"om half 1", "12:30", true},
		{"'s ochtends sporten", "09:00", true},
		{"s ochtends sporten", "09:00", true},
		{"'s middags lunch", "14:00", true},
		{"'s avonds eten", "19:00", true},
		{"morgen vergadering", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := resolveTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDefaultTime(t *testing.T) {
	intent, ok := Parse("morgen vergadering", testNow)
	require.True(t, ok)
	assert.Equal(t, "12:00", intent.Time)
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"morgen om 14:00 meeting", "meeting"},
		{"overmorgen vergadering", "vergadering"},
		{"volgende week maandag lunch met Anna", "lunch met Anna"},
		{"vrijdag 's avonds borrel", "borrel"},
		{"15 januari tandarts om 9 uur", "tandarts"},
		{"Vandaag Om 14:00 Teamoverleg", "Teamoverleg"},
		{"morgen om half 3", "Nieuw event"},
		{"vandaag", "Nieuw event"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, ok := Parse(tt.input, testNow)
			require.True(t, ok)
			assert.Equal(t, tt.want, intent.Title)
		})
	}
}

func TestParseScenario(t *testing.T) {
	// Spec walkthrough: "morgen om 14:00 meeting" on Wednesday 2024-01-10.
	intent, ok := Parse("morgen om 14:00 meeting", testNow)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.January, 11), intent.Date)
	assert.Equal(t, "14:00", intent.Time)
	assert.Equal(t, "meeting", intent.Title)

	start := intent.Start(time.UTC)
	assert.Equal(t, time.Date(2024, time.January, 11, 14, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(time.Hour), intent.End(time.UTC))
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "donderdag 11 januari 2024", FormatLongDate(date(2024, time.January, 11)))
	assert.Equal(t, "woensdag 10 januari 2024", FormatLongDate(date(2024, time.January, 10)))
}

func TestParseIndependentCalls(t *testing.T) {
	// Two independent parses of the same input yield identical intents.
	a, okA := Parse("morgen om 14:00 meeting", testNow)
	b, okB := Parse("morgen om 14:00 meeting", testNow)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, fmt.Sprintf("%+v", a), fmt.Sprintf("%+v", b))
}
