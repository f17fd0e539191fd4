package sim

import (
	"fmt"
	"strings"
)

// Event is one recorded happening inside a level.
type Event struct {
	Frame    int
	Category string  // stage, fire, helper, ladder, level
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[F=0042] stage    advance          start → hose_uncoiled
func (e Event) String() string {
	return fmt.Sprintf("[F=%04d] %-8s %-16s %s", e.Frame, e.Category, e.Key, e.Value)
}

// EventLog collects structured events for tests and the headless report.
// It is unbounded; a level is short-lived.
type EventLog struct {
	entries []Event
}

// Add records a new event.
func (el *EventLog) Add(frame int, category, key, value string, num float64) {
	el.entries = append(el.entries, Event{
		Frame:    frame,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   num,
	})
}

// Entries returns all recorded events.
func (el *EventLog) Entries() []Event {
	return el.entries
}

// Filter returns events matching category and key. An empty string matches
// anything.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many events match category and key.
func (el *EventLog) Count(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent event matching category and key.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return Event{}, false
	}
	return entries[len(entries)-1], true
}

// Reset drops every recorded event.
func (el *EventLog) Reset() {
	el.entries = el.entries[:0]
}

// Format returns the full log as one string, for t.Log and reports.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
