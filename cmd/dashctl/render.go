package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"dashboard/internal/models"
)

const (
	defaultWidth = 80
	detailIndent = 4
)

var priorityStyles = map[models.Priority]lipgloss.Style{
	models.PriorityASAP:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	models.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	models.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	models.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
	models.PriorityReminder: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
}

var (
	nameStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func paint(style lipgloss.Style, color bool, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}

// renderTodos writes one block per todo in the given order.
func renderTodos(w io.Writer, todos []models.Todo, width int, color bool, now time.Time) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "no todos")
		return
	}
	for _, t := range todos {
		var line strings.Builder
		line.WriteString(paint(priorityStyles[t.Priority], color, fmt.Sprintf("%-10s", "["+string(t.Priority)+"]")))
		line.WriteString(" ")
		line.WriteString(paint(nameStyle, color, t.Name))
		if t.DoneBy != nil {
			due := "due " + t.DoneBy.Format(time.DateOnly)
			if t.DoneBy.Before(now) {
				line.WriteString("  " + paint(overdueStyle, color, due+" (overdue)"))
			} else {
				line.WriteString("  " + paint(mutedStyle, color, due))
			}
		}
		fmt.Fprintln(w, line.String())

		if desc := strings.TrimSpace(t.Description); desc != "" {
			fmt.Fprintln(w, indent(wordwrap.String(desc, wrapWidth(width)), detailIndent))
		}
	}
}

// renderBookmarks writes one block per bookmark.
func renderBookmarks(w io.Writer, bookmarks []models.Bookmark, color bool) {
	if len(bookmarks) == 0 {
		fmt.Fprintln(w, "no bookmarks")
		return
	}
	width := terminalWidth(w)
	for _, b := range bookmarks {
		line := paint(mutedStyle, color, b.ID) + "  " + paint(nameStyle, color, b.Title)
		if b.Category != nil && *b.Category != "" {
			line += " [" + *b.Category + "]"
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, indent(b.URL, detailIndent))
		if b.Description != nil && strings.TrimSpace(*b.Description) != "" {
			fmt.Fprintln(w, indent(wordwrap.String(strings.TrimSpace(*b.Description), wrapWidth(width)), detailIndent))
		}
	}
}

func wrapWidth(width int) int {
	if width-detailIndent < 20 {
		return 20
	}
	return width - detailIndent
}

func indent(value string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// renderMarkdown formats notes for the terminal. It returns "" when rendering fails.
func renderMarkdown(width int, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	renderer := markdownRenderer(width)
	if renderer == nil {
		return ""
	}
	out, err := renderer.Render(text)
	if err != nil {
		return ""
	}
	return out
}

func markdownRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
