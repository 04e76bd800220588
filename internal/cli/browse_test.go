package cli

import (
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/idilsaglam/todo/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, b browser, msgs ...tea.Msg) browser {
	t.Helper()
	for _, msg := range msgs {
		m, _ := b.Update(msg)
		var ok bool
		if b, ok = m.(browser); !ok {
			t.Fatalf("Update returned %T, want browser", m)
		}
	}
	return b
}

func sampleList() *model.List {
	l := model.New()
	l.Add("a")
	l.Add("b")
	l.Add("c")
	return l
}

func TestBrowserMarkDone(t *testing.T) {
	l := sampleList()
	b := press(t, newBrowser(l, 80, 24), runes(" "))

	if !b.changed {
		t.Error("changed = false after marking done")
	}
	want := []model.Task{{ID: 1, Text: "a", Done: true}, {ID: 2, Text: "b"}, {ID: 3, Text: "c"}}
	if diff := cmp.Diff(want, l.Tasks()); diff != "" {
		t.Errorf("tasks (-want +got):\n%s", diff)
	}
}

func TestBrowserRemoveAndClear(t *testing.T) {
	l := sampleList()
	_ = l.MarkDone(3)
	b := press(t, newBrowser(l, 80, 24), runes("d"), runes("c"))

	if !b.changed {
		t.Error("changed = false")
	}
	if diff := cmp.Diff([]model.Task{{ID: 2, Text: "b"}}, l.Tasks()); diff != "" {
		t.Errorf("tasks (-want +got):\n%s", diff)
	}
	if got := len(b.list.Items()); got != 1 {
		t.Errorf("list items = %d, want 1", got)
	}
}

func TestBrowserAdd(t *testing.T) {
	l := model.New()
	b := press(t, newBrowser(l, 80, 24),
		runes("a"),
		runes("buy milk"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if b.adding {
		t.Error("still in add mode after enter")
	}
	if diff := cmp.Diff([]model.Task{{ID: 1, Text: "buy milk"}}, l.Tasks()); diff != "" {
		t.Errorf("tasks (-want +got):\n%s", diff)
	}
}

func TestBrowserAddKeepsTextVerbatim(t *testing.T) {
	l := model.New()
	b := press(t, newBrowser(l, 80, 24),
		runes("a"), tea.KeyMsg{Type: tea.KeyEnter},
		runes("a"), runes("  padded  "), tea.KeyMsg{Type: tea.KeyEnter},
	)

	if b.adding || !b.changed {
		t.Errorf("adding=%v changed=%v, want false, true", b.adding, b.changed)
	}
	want := []model.Task{{ID: 1, Text: ""}, {ID: 2, Text: "  padded  "}}
	if diff := cmp.Diff(want, l.Tasks()); diff != "" {
		t.Errorf("tasks (-want +got):\n%s", diff)
	}
}

func TestBrowserAddWhenIDsExhausted(t *testing.T) {
	l, err := model.Restore([]model.Task{{ID: 1, Text: "a"}}, math.MaxUint64)
	if err != nil {
		t.Fatal(err)
	}
	b := press(t, newBrowser(l, 80, 24), runes("a"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})

	if !b.adding {
		t.Error("left add mode after a refused add")
	}
	if b.errMsg == "" {
		t.Error("expected an error message")
	}
	if b.changed || l.Len() != 1 {
		t.Error("refused add changed the list")
	}

	b = press(t, b, tea.KeyMsg{Type: tea.KeyEsc})
	if b.adding || b.errMsg != "" {
		t.Error("esc did not cancel add mode")
	}
}

func TestBrowserQuitWithoutChanges(t *testing.T) {
	b := newBrowser(sampleList(), 80, 24)
	m, cmd := b.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
	if m.(browser).changed {
		t.Error("changed = true without edits")
	}
}

func TestBrowserIgnoresKeysOnEmptyList(t *testing.T) {
	l := model.New()
	b := press(t, newBrowser(l, 80, 24), runes(" "), runes("d"), runes("c"))
	if b.changed {
		t.Error("changed = true on empty list")
	}
	if l.NextID() != 1 {
		t.Errorf("NextID() = %d, want 1", l.NextID())
	}
}

func TestBrowserView(t *testing.T) {
	b := press(t, newBrowser(sampleList(), 80, 24), tea.WindowSizeMsg{Width: 100, Height: 30})
	if b.width != 100 || b.height != 30 {
		t.Errorf("size = %dx%d, want 100x30", b.width, b.height)
	}
	if b.View() == "" {
		t.Error("empty view")
	}
}
