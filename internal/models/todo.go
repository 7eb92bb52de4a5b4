package models

import (
	"strings"
	"time"
)

// TimeLayout matches the ISO-8601 form browsers emit for Date.toISOString.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// RawTodo is the stored and transmitted shape of a todo record.
type RawTodo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Created     string  `json:"created"`
	DoneBy      *string `json:"doneBy,omitempty"`
}

// Todo is a normalized todo record.
type Todo struct {
	Name        string
	Description string
	Priority    Priority
	// Created is zero when the stored value could not be parsed.
	Created time.Time
	// DoneBy is nil when the record has no deadline.
	DoneBy *time.Time
}

// Normalize converts stored records into Todos, filling defaults for missing fields.
// Unparsable timestamps never fail the batch: DoneBy becomes nil and Created becomes zero.
func Normalize(raw []RawTodo, now time.Time) []Todo {
	todos := make([]Todo, 0, len(raw))
	for _, r := range raw {
		t := Todo{
			Name:        r.Name,
			Description: r.Description,
			Priority:    ParsePriority(r.Priority),
			Created:     now,
		}
		if strings.TrimSpace(r.Created) != "" {
			t.Created, _ = ParseTime(r.Created)
		}
		if r.DoneBy != nil && strings.TrimSpace(*r.DoneBy) != "" {
			if due, ok := ParseTime(*r.DoneBy); ok {
				t.DoneBy = &due
			}
		}
		todos = append(todos, t)
	}
	return todos
}

// Raw converts the todo back into its wire shape.
func (t Todo) Raw() RawTodo {
	r := RawTodo{
		Name:        t.Name,
		Description: t.Description,
		Priority:    string(t.Priority),
	}
	if !t.Created.IsZero() {
		r.Created = FormatTime(t.Created)
	}
	if t.DoneBy != nil {
		due := FormatTime(*t.DoneBy)
		r.DoneBy = &due
	}
	return r
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts RFC 3339 timestamps and bare dates.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
