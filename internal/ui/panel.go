package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar draws done out of total as width cells (at least 5) of the
// theme's bar runes, followed by the whole percentage.
func ProgressBar(done, total, width int) string {
	t := Current()
	width = max(width, 5)
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	filled := min(width*pct/100, width)

	var b strings.Builder
	b.WriteString(strings.Repeat(t.BarFull, filled))
	b.WriteString(strings.Repeat(t.BarEmpty, width-filled))
	fmt.Fprintf(&b, " %3d%%", pct)
	return b.String()
}

// Panel draws lines inside a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(strings.Join(lines, "\n")))
}

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Success.Render(Current().SymDone+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render("✖ "+msg))
}

func Muted(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}
