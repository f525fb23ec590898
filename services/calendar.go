package services

import (
	"fmt"
	"strings"
	"time"
)

// Organizer identifies who hosts the marketing events in exported ICS files
type Organizer struct {
	Name  string
	Email string
}

// DefaultOrganizer is the firm hosting the marketing calendar
var DefaultOrganizer = Organizer{Name: "4Morgen", Email: "events@4morgen.com"}

// GenerateEventICS generates an ICS file content for a marketing event.
// Events have no time of day, so they are exported as all-day entries.
func GenerateEventICS(event CalendarEvent, organizer Organizer) ([]byte, error) {
	if event.Date.IsZero() {
		return nil, fmt.Errorf("event %q has no date", event.Title)
	}

	dtStamp := time.Now().UTC().Format("20060102T150405Z")
	dtStart := event.Date.Format("20060102")
	dtEnd := event.Date.AddDate(0, 0, 1).Format("20060102")

	uid := fmt.Sprintf("%s-%s@4morgen.com", dtStart, slugify(event.Title))

	const icsTemplate = "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//4Morgen//Marketing Calendar//EN\r\n" +
		"CALSCALE:GREGORIAN\r\n" +
		"METHOD:PUBLISH\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:%s\r\n" +
		"DTSTAMP:%s\r\n" +
		"DTSTART;VALUE=DATE:%s\r\n" +
		"DTEND;VALUE=DATE:%s\r\n" +
		"SUMMARY:%s\r\n" +
		"CATEGORIES:%s\r\n" +
		"ORGANIZER;CN=\"%s\":mailto:%s\r\n" +
		"STATUS:CONFIRMED\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	icsContent := fmt.Sprintf(icsTemplate,
		uid,
		dtStamp,
		dtStart,
		dtEnd,
		escapeICSText(event.Title),
		escapeICSText(event.Type),
		organizer.Name,
		organizer.Email,
	)

	return []byte(icsContent), nil
}

// EventICSFilename is the download name for an event's ICS file
func EventICSFilename(event CalendarEvent) string {
	name := slugify(event.Title)
	if name == "" {
		name = "event"
	}
	return event.Date.Format("2006-01-02") + "-" + name + ".ics"
}

// escapeICSText escapes backslashes, semicolons, commas and newlines (RFC 5545 3.3.11)
func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
