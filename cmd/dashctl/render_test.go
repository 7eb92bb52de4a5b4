package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dashboard/internal/models"
)

func TestRenderTodosPlain(t *testing.T) {
	now := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	past := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	todos := []models.Todo{
		{Name: "Pay rent", Priority: models.PriorityASAP, DoneBy: &past},
		{Name: "Book flights", Priority: models.PriorityLow, DoneBy: &future, Description: "window seat"},
		{Name: "Water plants", Priority: models.PriorityReminder},
	}

	var buf bytes.Buffer
	renderTodos(&buf, todos, 80, false, now)

	want := strings.Join([]string{
		"[ASAP]     Pay rent  due 2025-01-02 (overdue)",
		"[Low]      Book flights  due 2025-01-05",
		"    window seat",
		"[Reminder] Water plants",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderTodosEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderTodos(&buf, nil, 80, false, time.Now())
	assert.Equal(t, "no todos\n", buf.String())
}

func TestRenderTodosWrapsDescription(t *testing.T) {
	todos := []models.Todo{{
		Name:        "Plan trip",
		Priority:    models.PriorityMedium,
		Description: "compare train and bus prices before booking anything for the weekend",
	}}

	var buf bytes.Buffer
	renderTodos(&buf, todos, 30, false, time.Now())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 2)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "    "), "line %q is not indented", line)
		assert.LessOrEqual(t, len(line), 30)
	}
}

func TestRenderTodosColorKeepsText(t *testing.T) {
	todos := []models.Todo{{Name: "Pay rent", Priority: models.PriorityHigh}}

	var buf bytes.Buffer
	renderTodos(&buf, todos, 80, true, time.Now())
	assert.Contains(t, buf.String(), "Pay rent")
	assert.Contains(t, buf.String(), "[High]")
}

func TestRenderBookmarksPlain(t *testing.T) {
	category := "reading"
	bookmarks := []models.Bookmark{
		{ID: "1", Title: "Go blog", URL: "https://go.dev/blog", Category: &category},
		{ID: "2", Title: "Docs", URL: "https://pkg.go.dev"},
	}

	var buf bytes.Buffer
	renderBookmarks(&buf, bookmarks, false)

	want := strings.Join([]string{
		"1  Go blog [reading]",
		"    https://go.dev/blog",
		"2  Docs",
		"    https://pkg.go.dev",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, renderMarkdown(80, "  \n"))

	out := renderMarkdown(80, "# Groceries\n\n- milk\n- eggs\n")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "- milk")
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, isTerminal(&buf))
	assert.Equal(t, defaultWidth, terminalWidth(&buf))
}
