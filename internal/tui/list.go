package tui

import (
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// List projects the collection into rows. The cursor is the only thing it
// keeps between projections.
type List struct {
	rows   []Row
	cursor int

	toggleItem func(id string, completed bool)
	deleteItem func(id string)
}

func NewList(toggleItem func(string, bool), deleteItem func(string)) List {
	return List{toggleItem: toggleItem, deleteItem: deleteItem}
}

// SetItems rebuilds every row from items, in order.
func (l *List) SetItems(items []model.Item) {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, NewRow(it, l.toggleItem, l.deleteItem))
	}
	l.rows = rows
	l.clamp()
}

func (l *List) clamp() {
	if l.cursor >= len(l.rows) {
		l.cursor = len(l.rows) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l List) Len() int    { return len(l.rows) }
func (l List) Cursor() int { return l.cursor }
func (l List) Rows() []Row { return l.rows }

// Items is the collection the rows were built from.
func (l List) Items() []model.Item {
	out := make([]model.Item, 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, r.Item)
	}
	return out
}

// Selected returns the row under the cursor.
func (l List) Selected() (Row, bool) {
	if len(l.rows) == 0 {
		return Row{}, false
	}
	return l.rows[l.cursor], true
}

func (l *List) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *List) Down() {
	if l.cursor < len(l.rows)-1 {
		l.cursor++
	}
}

// View renders the rows, or the empty-state indicator. The cursor is only
// drawn when the list has focus.
func (l List) View(focused bool) string {
	if len(l.rows) == 0 {
		return ui.MutedStyle.Render(ui.EmptyState)
	}
	lines := make([]string, 0, len(l.rows))
	for i, r := range l.rows {
		lines = append(lines, r.View(focused && i == l.cursor))
	}
	return strings.Join(lines, "\n")
}
