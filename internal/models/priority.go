package models

// Priority is the urgency tier of a todo. The value doubles as its display label.
type Priority string

const (
	PriorityASAP     Priority = "ASAP"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
	PriorityReminder Priority = "Reminder"
)

// DefaultPriority is assigned to records that carry no usable priority.
const DefaultPriority = PriorityReminder

// Priorities returns every tier, most urgent first.
func Priorities() []Priority {
	return []Priority{PriorityASAP, PriorityHigh, PriorityMedium, PriorityLow, PriorityReminder}
}

// Rank returns the sort key of a priority; lower is more urgent.
// Values outside the enumeration rank after Reminder.
func Rank(p Priority) int {
	switch p {
	case PriorityASAP:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	case PriorityReminder:
		return 5
	default:
		return 6
	}
}

// IsValid reports whether p is one of the five tiers.
func (p Priority) IsValid() bool {
	return Rank(p) <= 5
}

// ParsePriority maps a wire value to a Priority, falling back to DefaultPriority.
func ParsePriority(raw string) Priority {
	p := Priority(raw)
	if !p.IsValid() {
		return DefaultPriority
	}
	return p
}
