package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

func init() {
	ui.SetColorMode(false, true)
}

func newRoot(s store.Storage) *app.Root {
	n := 0
	return app.New(s, app.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
}

// failingStorage rejects writes while err is set.
type failingStorage struct {
	store.Storage
	err error
}

func (f *failingStorage) SetItem(key, value string) error {
	if f.err != nil {
		return f.err
	}
	return f.Storage.SetItem(key, value)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

// step feeds msg to m, then delivers any pending change notification the
// way the program's command loop would.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	m = next.(Model)
	select {
	case <-m.updates:
		next, _ = m.Update(changedMsg{})
		m = next.(Model)
	default:
	}
	return m
}

func plain(m Model) string { return ansi.Strip(m.View()) }

func TestForm_OnSubmitIgnoresEmpty(t *testing.T) {
	var got []string
	f := NewForm(func(title string) { got = append(got, title) })
	f.OnSubmit()
	if len(got) != 0 {
		t.Fatalf("empty submit should not add, got %q", got)
	}
	f.OnInputChange("  Buy milk  ")
	if f.Value() != "  Buy milk  " {
		t.Fatalf("input should be held verbatim, got %q", f.Value())
	}
	f.OnSubmit()
	if len(got) != 1 || got[0] != "  Buy milk  " {
		t.Fatalf("expected verbatim title submitted, got %q", got)
	}
	if f.Value() != "" {
		t.Fatalf("form should reset after submit, got %q", f.Value())
	}
}

func TestRow_ReportsIntentWithID(t *testing.T) {
	var toggled []string
	var deleted []string
	r := NewRow(model.Item{ID: "x", Title: "t"},
		func(id string, c bool) { toggled = append(toggled, fmt.Sprintf("%s=%v", id, c)) },
		func(id string) { deleted = append(deleted, id) },
	)
	r.OnToggle(true)
	r.OnToggle(false)
	r.OnDeleteClick()
	if strings.Join(toggled, ",") != "x=true,x=false" {
		t.Fatalf("unexpected toggles %q", toggled)
	}
	if len(deleted) != 1 || deleted[0] != "x" {
		t.Fatalf("unexpected deletes %q", deleted)
	}
}

func TestList_ProjectsInOrderAndShowsEmptyState(t *testing.T) {
	l := NewList(nil, nil)
	if got := ansi.Strip(l.View(true)); got != ui.EmptyState {
		t.Fatalf("expected empty state, got %q", got)
	}
	items := []model.Item{{ID: "1", Title: "first"}, {ID: "2", Title: "second", Completed: true}}
	l.SetItems(items)
	l.SetItems(items)
	if l.Len() != 2 {
		t.Fatalf("projection should be idempotent, got %d rows", l.Len())
	}
	out := ansi.Strip(l.View(false))
	if strings.Index(out, "first") > strings.Index(out, "second") {
		t.Fatalf("rows out of order:\n%s", out)
	}
	if !strings.Contains(out, ui.BoxChecked+" second") || !strings.Contains(out, ui.BoxUnchecked+" first") {
		t.Fatalf("checkbox state not rendered:\n%s", out)
	}
}

func TestList_CursorClampsAfterShrink(t *testing.T) {
	l := NewList(nil, nil)
	l.SetItems([]model.Item{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	l.Down()
	l.Down()
	l.Down()
	if l.Cursor() != 2 {
		t.Fatalf("cursor should stop at last row, got %d", l.Cursor())
	}
	l.SetItems([]model.Item{{ID: "1"}})
	if l.Cursor() != 0 {
		t.Fatalf("cursor should clamp, got %d", l.Cursor())
	}
	l.SetItems(nil)
	if _, ok := l.Selected(); ok {
		t.Fatalf("empty list has no selection")
	}
}

func TestModel_StartsFromStoredItems(t *testing.T) {
	s := store.NewMemory()
	r := newRoot(s)
	r.AddItem("from disk")

	m := New(newRoot(s))
	if !strings.Contains(plain(m), "from disk") {
		t.Fatalf("expected stored item in view:\n%s", plain(m))
	}
}

func TestModel_BuyMilkScenario(t *testing.T) {
	root := newRoot(store.NewMemory())
	m := New(root)

	if !strings.Contains(plain(m), ui.EmptyState) {
		t.Fatalf("expected empty state on start:\n%s", plain(m))
	}

	// Empty submit does nothing.
	m = step(t, m, enterKey)
	if len(root.Items()) != 0 {
		t.Fatalf("empty submit added an item")
	}

	m = step(t, m, runes("Buy milk"))
	m = step(t, m, enterKey)
	items := root.Items()
	if len(items) != 1 || items[0].Title != "Buy milk" || items[0].Completed {
		t.Fatalf("unexpected items after add: %#v", items)
	}
	if m.form.Value() != "" {
		t.Fatalf("form not cleared: %q", m.form.Value())
	}
	if !strings.Contains(plain(m), ui.BoxUnchecked+" Buy milk") {
		t.Fatalf("list not re-rendered after add:\n%s", plain(m))
	}

	m = step(t, m, tabKey)
	if m.pane != paneList {
		t.Fatalf("tab should focus the list")
	}
	m = step(t, m, spaceKey)
	if it, _ := root.Find(items[0].ID); !it.Completed {
		t.Fatalf("space should complete the selected item")
	}
	if !strings.Contains(plain(m), ui.BoxChecked+" Buy milk") {
		t.Fatalf("list not re-rendered after toggle:\n%s", plain(m))
	}

	m = step(t, m, runes("d"))
	if len(root.Items()) != 0 {
		t.Fatalf("d should delete the selected item")
	}
	if !strings.Contains(plain(m), ui.EmptyState) {
		t.Fatalf("expected empty state after delete:\n%s", plain(m))
	}
}

func TestModel_ToggleTwiceRestores(t *testing.T) {
	root := newRoot(store.NewMemory())
	root.AddItem("a")
	root.AddItem("b")
	m := New(root)
	before := root.Items()

	m = step(t, m, tabKey)
	m = step(t, m, runes("j"))
	m = step(t, m, spaceKey)
	if it, _ := root.Find("id-2"); !it.Completed {
		t.Fatalf("expected second item completed")
	}
	m = step(t, m, spaceKey)
	after := root.Items()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("item %d changed: %#v -> %#v", i, before[i], after[i])
		}
	}
	_ = m
}

func TestModel_TypingQInFormDoesNotQuit(t *testing.T) {
	m := New(newRoot(store.NewMemory()))
	next, _ := m.Update(runes("q"))
	m = next.(Model)
	if m.form.Value() != "q" {
		t.Fatalf("expected q typed into form, got %q", m.form.Value())
	}
}

func TestModel_QuitFromListUnsubscribes(t *testing.T) {
	root := newRoot(store.NewMemory())
	m := New(root)
	m = step(t, m, tabKey)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	// Mutations after quit must not panic on the closed channel.
	root.AddItem("after quit")
	if _, ok := <-m.updates; ok {
		t.Fatalf("updates channel should be closed")
	}
}

func TestModel_ShowsPersistWarning(t *testing.T) {
	s := &failingStorage{Storage: store.NewMemory()}
	root := newRoot(s)
	m := New(root)
	s.err = errors.New("disk full")

	m = step(t, m, runes("x"))
	m = step(t, m, enterKey)
	out := plain(m)
	if !strings.Contains(out, "not saved: ") || !strings.Contains(out, "disk full") {
		t.Fatalf("expected persist warning:\n%s", out)
	}
	if !strings.Contains(out, ui.BoxUnchecked+" x") {
		t.Fatalf("item should still be listed:\n%s", out)
	}
}

func TestWaitForChange_Coalesces(t *testing.T) {
	ch := make(chan struct{}, 1)
	publish(ch)
	publish(ch)
	if _, ok := waitForChange(ch)().(changedMsg); !ok {
		t.Fatalf("expected changedMsg")
	}
	select {
	case <-ch:
		t.Fatalf("second publish should have coalesced into the first")
	default:
	}
	close(ch)
	if msg := waitForChange(ch)(); msg != nil {
		t.Fatalf("closed channel should yield nil, got %#v", msg)
	}
}

// press applies keys back to back without delivering change notifications,
// as happens when key repeat queues input ahead of the notification.
func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func TestModel_RepeatedDeleteActsOnCurrentItems(t *testing.T) {
	root := newRoot(store.NewMemory())
	root.AddItem("a")
	root.AddItem("b")
	m := New(root)

	m = press(m, tabKey, runes("d"), runes("d"))
	if items := root.Items(); len(items) != 0 {
		t.Fatalf("expected both items deleted, left %#v", items)
	}
	if !strings.Contains(plain(m), ui.EmptyState) {
		t.Fatalf("expected empty state:\n%s", plain(m))
	}
}

func TestModel_RepeatedToggleRoundTrips(t *testing.T) {
	root := newRoot(store.NewMemory())
	root.AddItem("a")
	m := New(root)

	m = press(m, tabKey, spaceKey, spaceKey)
	if it, _ := root.Find("id-1"); it.Completed {
		t.Fatalf("two toggles should restore completed=false")
	}
	m = press(m, spaceKey)
	if it, _ := root.Find("id-1"); !it.Completed {
		t.Fatalf("third toggle should complete the item")
	}
	if !strings.Contains(plain(m), ui.BoxChecked+" a") {
		t.Fatalf("list not projected after toggles:\n%s", plain(m))
	}
}

func TestModel_SubmitProjectsImmediately(t *testing.T) {
	root := newRoot(store.NewMemory())
	m := New(root)

	m = press(m, runes("x"), enterKey)
	if !strings.Contains(plain(m), ui.BoxUnchecked+" x") {
		t.Fatalf("new item should be listed before any notification:\n%s", plain(m))
	}
}

func TestModel_ChangeFromOutsideIsProjected(t *testing.T) {
	root := newRoot(store.NewMemory())
	m := New(root)

	root.AddItem("added elsewhere")
	select {
	case <-m.updates:
	default:
		t.Fatalf("expected a change notification")
	}
	next, _ := m.Update(changedMsg{})
	m = next.(Model)
	if !strings.Contains(plain(m), "added elsewhere") {
		t.Fatalf("outside change not projected:\n%s", plain(m))
	}
}
