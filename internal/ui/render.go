package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/model"
)

// EmptyState is shown in place of an empty list.
const EmptyState = "No Todos"

const maxTitleWidth = 80

// Header is the "Todo List  ✔ n  • n  Total n" line.
func Header(items []model.Item) string {
	d, p := model.Stats(items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		TitleStyle.Render("Todo List"),
		SuccessStyle.Render("✔"), d,
		PendingStyle.Render("•"), p,
		AccentStyle.Render("Total"), len(items),
	)
}

// Checkbox renders the box glyph for a completion state.
func Checkbox(completed bool) string {
	if completed {
		return SuccessStyle.Render(BoxChecked)
	}
	return MutedStyle.Render(BoxUnchecked)
}

// Title truncates to a readable width and styles completed items.
func Title(it model.Item) string {
	t := ansi.Truncate(it.Title, maxTitleWidth, "...")
	if it.Completed {
		return DoneStyle.Render(t)
	}
	return t
}

// ShortID is the id prefix shown next to each row.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FlatLines renders items with their 1-based index.
func FlatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{MutedStyle.Render(EmptyState)}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		out = append(out, fmt.Sprintf("%s %s %s %s",
			MutedStyle.Render(idx), Checkbox(it.Completed), Title(it), MutedStyle.Render(ShortID(it.ID))))
	}
	return out
}

// GroupLines renders pending items then done items. Indexes still refer to
// positions in the full collection.
func GroupLines(items []model.Item) []string {
	var pend, done []string
	for i, it := range items {
		line := fmt.Sprintf("%s %s %s %s",
			MutedStyle.Render(fmt.Sprintf("%2d.", i+1)), Checkbox(it.Completed), Title(it), MutedStyle.Render(ShortID(it.ID)))
		if it.Completed {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	var lines []string
	lines = append(lines, AccentStyle.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, MutedStyle.Render("(none)"))
	} else {
		lines = append(lines, pend...)
	}
	lines = append(lines, "")
	lines = append(lines, AccentStyle.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, MutedStyle.Render("(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}

// ProgressBar renders "[███░░] done/total" at the given width.
func ProgressBar(done, total, width int) string {
	if width <= 0 {
		width = 28
	}
	filled := 0
	if total > 0 {
		filled = min(done*width/total, width)
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
