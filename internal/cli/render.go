package cli

import (
	"fmt"
	"io"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

const maxTextWidth = 80

// -------------- rendering helpers --------------

func renderList(w io.Writer, l *model.List, group bool) {
	if l.Len() == 0 {
		ui.Muted(w, "No tasks found")
		return
	}

	t := ui.Current()
	d, p := l.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), l.Len(),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(l.Tasks())...)
	} else {
		lines = append(lines, flatLines(l.Tasks())...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: complete with `todo done <id>`"))
	ui.Panel(w, lines)
}

func flatLines(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, numberedLine(task))
	}
	return out
}

func numberedLine(task model.Task) string {
	return ui.Current().Muted.Render(fmt.Sprintf("%3d.", task.ID)) + " " + taskLine(task)
}

func taskLine(task model.Task) string {
	t := ui.Current()
	text := ui.Truncate(task.Text, maxTextWidth)
	if task.Done {
		return t.Success.Render(t.BoxChecked) + " " + t.Done.Render(text)
	}
	return t.Muted.Render(t.BoxUnchecked) + " " + text
}

// groupLines lists pending tasks first, then done ones, each under a heading.
func groupLines(tasks []model.Task) []string {
	t := ui.Current()
	var lines []string
	for i, sec := range []struct {
		title string
		done  bool
	}{{"Pending", false}, {"Done", true}} {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(sec.title))
		n := len(lines)
		for _, task := range tasks {
			if task.Done == sec.done {
				lines = append(lines, numberedLine(task))
			}
		}
		if len(lines) == n {
			lines = append(lines, t.Muted.Render("(none)"))
		}
	}
	return lines
}
