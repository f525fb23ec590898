package services

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gopkg.in/yaml.v3"
)

// Event icon references, resolved to SVGs by the templates
const (
	IconCoffee   = "coffee"
	IconShield   = "shield"
	IconMic      = "mic"
	IconUsers    = "users"
	IconBookOpen = "book-open"
	IconLandmark = "landmark"
	IconScale    = "scale"
	IconEuro     = "euro"
	IconFileText = "file-text"
)

// CalendarEvent is a dated marketing event
type CalendarEvent struct {
	Date  time.Time `json:"date"`
	Type  string    `json:"type"`
	Title string    `json:"title"`
	Icon  string    `json:"icon"`
}

//go:embed marketing_events.yaml
var marketingEventsYAML []byte

const eventCatalogueVersion = 1

type eventCatalogue struct {
	Version int          `yaml:"version"`
	Events  []eventEntry `yaml:"events"`
}

type eventEntry struct {
	Date  string `yaml:"date"`
	Type  string `yaml:"type"`
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
}

// marketingEvents is built once at startup and only ever copied out
var marketingEvents = mustLoadMarketingEvents()

func mustLoadMarketingEvents() []CalendarEvent {
	events, err := DecodeMarketingEvents(bytes.NewReader(marketingEventsYAML))
	if err != nil {
		panic(err)
	}
	return events
}

// DecodeMarketingEvents reads an event catalogue. Entries with a bad date
// are skipped with a warning; an unknown field or version is an error.
func DecodeMarketingEvents(r io.Reader) ([]CalendarEvent, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var doc eventCatalogue
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("event catalogue is empty")
		}
		return nil, fmt.Errorf("failed to parse event catalogue: %w", err)
	}
	if doc.Version != eventCatalogueVersion {
		return nil, fmt.Errorf("unsupported event catalogue version %d", doc.Version)
	}

	events := make([]CalendarEvent, 0, len(doc.Events))
	for _, entry := range doc.Events {
		date, err := ParseEventDate(entry.Date)
		if err != nil {
			log.Printf("[WARNING] Skipping marketing event %q: %v", entry.Title, err)
			continue
		}
		events = append(events, CalendarEvent{Date: date, Type: entry.Type, Title: entry.Title, Icon: entry.Icon})
	}
	return events, nil
}

// DefaultMarketingEvents returns a copy of the firm's marketing calendar
func DefaultMarketingEvents() []CalendarEvent {
	out := make([]CalendarEvent, len(marketingEvents))
	copy(out, marketingEvents)
	return out
}

// FilterEvents keeps the events dated between today and the window end,
// both inclusive. Source order is preserved.
func FilterEvents(events []CalendarEvent, now time.Time, tr TimeRange) []CalendarEvent {
	start := dateOnly(now)
	end := WindowEnd(now, tr.Months())

	filtered := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		d := dateOnly(e.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// EventGroup is the set of events sharing a month-year label
type EventGroup struct {
	Label  string
	Events []CalendarEvent
}

// EventGroups keeps groups in the order their label was first seen
type EventGroups []EventGroup

// ByLabel returns the grouping as a label -> events mapping
func (g EventGroups) ByLabel() map[string][]CalendarEvent {
	out := make(map[string][]CalendarEvent, len(g))
	for _, group := range g {
		out[group.Label] = group.Events
	}
	return out
}

// Labels returns the group labels in order
func (g EventGroups) Labels() []string {
	labels := make([]string, len(g))
	for i, group := range g {
		labels[i] = group.Label
	}
	return labels
}

// GroupEventsByMonth buckets events by month-year label. Groups are not
// sorted; events keep their relative source order inside a group.
func GroupEventsByMonth(events []CalendarEvent) EventGroups {
	groups := EventGroups{}
	index := make(map[string]int)

	for _, e := range events {
		label := MonthYearLabel(e.Date)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, EventGroup{Label: label})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}

// UpcomingEvents runs the filter and group steps
func UpcomingEvents(events []CalendarEvent, now time.Time, tr TimeRange) EventGroups {
	return GroupEventsByMonth(FilterEvents(events, now, tr))
}
