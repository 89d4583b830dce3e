// Package tui is the interactive screen: an entry form above the item list,
// both wired to an app.Root through callbacks.
package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

type pane int

const (
	paneForm pane = iota
	paneList
)

// changedMsg reports that the Root was mutated since the last projection.
type changedMsg struct{}

// Model is the Bubble Tea model for the whole screen.
type Model struct {
	root *app.Root
	form Form
	list List
	pane pane

	updates     chan struct{}
	unsubscribe func()
	stopOnce    *sync.Once

	keys  keyMap
	help  help.Model
	width int
}

// New subscribes to root and builds the screen from its current items.
func New(root *app.Root) Model {
	updates := make(chan struct{}, 1)
	m := Model{
		root:     root,
		pane:     paneForm,
		updates:  updates,
		stopOnce: &sync.Once{},
		keys:     defaultKeys(),
		help:     help.New(),
	}
	m.unsubscribe = root.Subscribe(func([]model.Item) { publish(updates) })
	m.form = NewForm(func(title string) { root.AddItem(title) })
	m.list = NewList(
		func(id string, completed bool) { root.ToggleItem(id, completed) },
		func(id string) { root.DeleteItem(id) },
	)
	m.list.SetItems(root.Items())
	m.form.Focus()
	return m
}

// publish coalesces notifications; a pending one already covers this change.
func publish(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// refresh re-projects the list from the Root's current items.
func (m *Model) refresh() {
	m.list.SetItems(m.root.Items())
}

func (m Model) stop() {
	m.stopOnce.Do(func() {
		m.unsubscribe()
		close(m.updates)
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.stop()
	return m, tea.Quit
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, waitForChange(m.updates)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		if key.Matches(msg, m.keys.SwitchPane) {
			return m.switchPane()
		}
		if m.pane == paneForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	if m.pane == paneForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) switchPane() (tea.Model, tea.Cmd) {
	if m.pane == paneForm {
		m.pane = paneList
		m.form.Blur()
		return m, nil
	}
	m.pane = paneForm
	return m, m.form.Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		m.form.OnSubmit()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.list.Up()
	case key.Matches(msg, m.keys.Down):
		m.list.Down()
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.list.Selected(); ok {
			r.OnToggle(!r.Item.Completed)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.list.Selected(); ok {
			r.OnDeleteClick()
			m.refresh()
		}
	case key.Matches(msg, m.keys.Add):
		m.pane = paneForm
		return m, m.form.Focus()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.form.View())
	b.WriteString("\n\n")
	b.WriteString(ui.Header(m.list.Items()))
	b.WriteString("\n\n")
	b.WriteString(m.list.View(m.pane == paneList))
	if err := m.root.LastPersistError(); err != nil {
		b.WriteString("\n\n")
		b.WriteString(ui.WarnStyle.Render("! not saved: " + err.Error()))
	}
	b.WriteString("\n\n")
	if m.pane == paneForm {
		b.WriteString(m.help.View(formHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(listHelp{m.keys}))
	}
	return ui.BorderStyle.Render(b.String())
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(root *app.Root) error {
	m := New(root)
	defer m.stop()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
