package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankIsStrictlyMonotonic(t *testing.T) {
	all := Priorities()
	for i := 1; i < len(all); i++ {
		assert.Less(t, Rank(all[i-1]), Rank(all[i]), "%s should outrank %s", all[i-1], all[i])
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"ASAP", PriorityASAP},
		{"High", PriorityHigh},
		{"Medium", PriorityMedium},
		{"Low", PriorityLow},
		{"Reminder", PriorityReminder},
		{"", PriorityReminder},
		{"asap", PriorityReminder},
		{"urgent", PriorityReminder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePriority(tt.in), "input %q", tt.in)
	}
}

func TestPriorityIsValid(t *testing.T) {
	for _, p := range Priorities() {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Priority("Critical").IsValid())
}
