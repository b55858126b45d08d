package feed

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// summaryNoise strips the boilerplate OTA feeds wrap around the guest name
// in event summaries ("Prenotazione Mario Rossi", "Booking #123", ...).
var summaryNoise = regexp.MustCompile(`(?i)(prenotazione|reservation|booking|guest|ospite|#)`)

// fallbackGuestName labels imports whose summary carries no usable name.
const fallbackGuestName = "Booking.com guest"

// ParseEvents extracts stay events from an iCal payload. Events without a
// usable start or end are dropped silently; feeds routinely contain
// placeholder entries. Start and end are normalized to midnight UTC since
// the register treats them as calendar dates.
func ParseEvents(body []byte, url string) ([]Event, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	events := make([]Event, 0)
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			continue
		}

		var uid string
		if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
			uid = p.Value
		}
		var summary string
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			summary = p.Value
		}

		events = append(events, Event{
			UID:     uid,
			Summary: summary,
			Start:   toDate(start),
			End:     toDate(end),
		})
	}

	return events, nil
}

// toDate drops the time-of-day part, keeping the calendar date.
func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GuestNameFromSummary pulls a guest name out of an event summary by
// removing the OTA boilerplate around it.
func GuestNameFromSummary(summary string) string {
	name := strings.TrimSpace(summaryNoise.ReplaceAllString(summary, ""))
	if name == "" {
		return fallbackGuestName
	}
	return name
}
