// Package ordering computes the display order of todos.
//
// Records with a deadline come first, soonest deadline first. Records without a
// deadline, and records whose deadlines tie, are ordered by priority rank.
package ordering

import (
	"slices"

	"dashboard/internal/models"
)

// Compare returns a negative number when a sorts before b, a positive number when
// b sorts before a and zero when neither rule separates them.
func Compare(a, b models.Todo) int {
	switch {
	case a.DoneBy != nil && b.DoneBy != nil:
		if c := a.DoneBy.Compare(*b.DoneBy); c != 0 {
			return c
		}
	case a.DoneBy != nil:
		return -1
	case b.DoneBy != nil:
		return 1
	}
	return models.Rank(a.Priority) - models.Rank(b.Priority)
}

// Sort returns a sorted copy of todos. Records that compare equal keep their input order.
func Sort(todos []models.Todo) []models.Todo {
	sorted := slices.Clone(todos)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}
