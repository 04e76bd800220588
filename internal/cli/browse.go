package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit tasks interactively",
		Args:  exactArgs(0, "usage: todo browse"),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load()
			if err != nil {
				return err
			}
			w, h := termSize()
			p := tea.NewProgram(newBrowser(l, w, h), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			if b, ok := final.(browser); ok && b.changed {
				if err := a.save(l); err != nil {
					return err
				}
				ui.OK(a.stdout, "saved")
			}
			return nil
		},
	}
}

// taskItem adapts model.Task to bubbles/list.Item.
type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Text }

// taskDelegate renders each task on a single line.
type taskDelegate struct{}

func (d taskDelegate) Height() int                               { return 1 }
func (d taskDelegate) Spacing() int                              { return 0 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	t := ui.Current()
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s", prefix, t.Muted.Render(fmt.Sprintf("%3d.", it.task.ID)), taskLine(it.task))
}

var (
	doneKey  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	addKey   = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	rmKey    = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove"))
	clearKey = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear done"))
)

// browser is the Bubble Tea model behind `todo browse`. Every edit goes
// through the model.List operations; the caller saves when changed is set.
type browser struct {
	list    list.Model
	tasks   *model.List
	changed bool

	adding bool
	input  textinput.Model
	errMsg string

	width, height int
}

func newBrowser(l *model.List, width, height int) browser {
	lm := list.New(nil, taskDelegate{}, width, height)
	lm.SetShowHelp(true)
	lm.SetShowStatusBar(true)
	lm.SetFilteringEnabled(true)
	lm.SetStatusBarItemName("task", "tasks")
	lm.Styles.Title = ui.Current().Title
	lm.FilterInput.Prompt = "/ "
	lm.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{doneKey, addKey, rmKey, clearKey} }
	lm.AdditionalFullHelpKeys = lm.AdditionalShortHelpKeys

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "New task..."
	in.CharLimit = 200

	b := browser{list: lm, tasks: l, input: in, width: width, height: height}
	b.refresh()
	b.resize()
	return b
}

// refresh rebuilds list items and the header from the task list.
func (b *browser) refresh() {
	tasks := b.tasks.Tasks()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}
	b.list.SetItems(items)

	t := ui.Current()
	d, p := b.tasks.Stats()
	b.list.Title = fmt.Sprintf("Todos   %s %d  %s %d  Total %d",
		t.SymDone, d, t.SymPending, p, b.tasks.Len())
}

func (b *browser) resize() {
	h := b.height - 4
	if b.adding {
		h = b.height - 8
	}
	if h < 1 {
		h = 1
	}
	w := b.width - 4
	if w < 10 {
		w = 10
	}
	b.list.SetSize(w, h)
}

func (b browser) selected() (model.Task, bool) {
	it, ok := b.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (b browser) Init() tea.Cmd { return nil }

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		b.width, b.height = size.Width, size.Height
		b.resize()
		return b, nil
	}

	if b.adding {
		return b.updateAdding(msg)
	}

	// let the filter input consume keys while the user types a filter
	if b.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		b.list, cmd = b.list.Update(msg)
		return b, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc", "ctrl+c":
			return b, tea.Quit
		case " ":
			if t, ok := b.selected(); ok && !t.Done {
				if err := b.tasks.MarkDone(t.ID); err == nil {
					b.changed = true
					b.refresh()
				}
			}
			return b, nil
		case "d":
			if t, ok := b.selected(); ok {
				if err := b.tasks.Remove(t.ID); err == nil {
					b.changed = true
					b.refresh()
				}
			}
			return b, nil
		case "c":
			if n := b.tasks.ClearDone(); n > 0 {
				b.changed = true
				b.refresh()
			}
			return b, nil
		case "a":
			b.adding = true
			b.errMsg = ""
			b.input.SetValue("")
			b.resize()
			return b, b.input.Focus()
		}
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func (b browser) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			if _, err := b.tasks.Add(b.input.Value()); err != nil {
				b.errMsg = err.Error()
				return b, nil
			}
			b.changed = true
			b.stopAdding()
			b.refresh()
			b.list.Select(len(b.list.Items()) - 1)
			return b, nil
		case "esc":
			b.stopAdding()
			return b, nil
		}
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

func (b *browser) stopAdding() {
	b.adding = false
	b.errMsg = ""
	b.input.SetValue("")
	b.input.Blur()
	b.resize()
}

func (b browser) View() string {
	content := b.list.View()
	if b.adding {
		title := "Add task"
		if b.errMsg != "" {
			title += " - " + ui.Current().Error.Render(b.errMsg)
		}
		content += "\n" + ui.PanelString(title+"\n"+b.input.View())
	}
	return ui.PanelString(content)
}

func termSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
