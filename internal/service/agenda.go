package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/planpal/planpal/internal/calendar"
	"github.com/planpal/planpal/internal/nlp"
)

// FormatAgenda renders one day's events as a Dutch list.
func FormatAgenda(day time.Time, events []calendar.Event) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", nlp.FormatLongDate(day)))

	if len(events) == 0 {
		sb.WriteString("Geen events vandaag.")
		return sb.String()
	}

	for _, e := range events {
		title := e.Title
		if title == "" {
			title = "(zonder titel)"
		}

		if e.AllDay {
			sb.WriteString(fmt.Sprintf("• %s (hele dag)\n", title))
			continue
		}

		line := fmt.Sprintf("• %s", e.Start.In(day.Location()).Format("15:04"))
		if !e.End.IsZero() {
			line += "–" + e.End.In(day.Location()).Format("15:04")
		}
		sb.WriteString(line + " " + title + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
