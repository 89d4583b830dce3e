package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/ui"
)

// Form holds the in-progress title and submits it through addItem.
type Form struct {
	input   textinput.Model
	addItem func(title string)
}

func NewForm(addItem func(string)) Form {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 0
	return Form{input: ti, addItem: addItem}
}

// Value is the held text.
func (f Form) Value() string { return f.input.Value() }

// OnInputChange replaces the held text.
func (f *Form) OnInputChange(text string) {
	f.input.SetValue(text)
}

// OnSubmit hands non-empty text to addItem and clears the field.
// Empty text is ignored without feedback.
func (f *Form) OnSubmit() {
	text := f.input.Value()
	if text == "" {
		return
	}
	if f.addItem != nil {
		f.addItem(text)
	}
	f.input.SetValue("")
}

func (f *Form) Focus() tea.Cmd { return f.input.Focus() }
func (f *Form) Blur()          { f.input.Blur() }
func (f Form) Focused() bool   { return f.input.Focused() }

// Update forwards typing to the text input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f Form) View() string {
	label := ui.TitleStyle.Render("New Item")
	btn := ui.MutedStyle.Render("[ Add ]")
	if f.Focused() {
		btn = ui.AccentStyle.Render("[ Add ]")
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, f.input.View()+"  "+btn)
}
