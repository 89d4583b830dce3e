package tui

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Row presents one item and reports toggle/delete intent upward.
type Row struct {
	Item model.Item

	toggleItem func(id string, completed bool)
	deleteItem func(id string)
}

func NewRow(it model.Item, toggleItem func(string, bool), deleteItem func(string)) Row {
	return Row{Item: it, toggleItem: toggleItem, deleteItem: deleteItem}
}

// OnToggle reports the checkbox's new value.
func (r Row) OnToggle(checked bool) {
	if r.toggleItem != nil {
		r.toggleItem(r.Item.ID, checked)
	}
}

func (r Row) OnDeleteClick() {
	if r.deleteItem != nil {
		r.deleteItem(r.Item.ID)
	}
}

// View renders the row; the selected row gets a cursor and a delete hint.
func (r Row) View(selected bool) string {
	line := fmt.Sprintf("%s %s", ui.Checkbox(r.Item.Completed), ui.Title(r.Item))
	if !selected {
		return "  " + line
	}
	return ui.SelectedStyle.Render("> ") + line + "  " + ui.ErrorStyle.Render("[d] Delete")
}
