package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Done, Selected                                lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	SymDone, SymPending                           string
	BarFull, BarEmpty                             string // progress bar cells
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.TerminalColor
}

var current = classic()

// SetTheme selects a theme by name; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			BarFull: "▰", BarEmpty: "▱",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
		}
	case "mono":
		SetColorForcing(false, true)
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
			Done: plain, Selected: plain,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			BarFull: "#", BarEmpty: ".",
			Border:      lipgloss.ASCIIBorder(),
			BorderColor: lipgloss.NoColor{},
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		BarFull: "█", BarEmpty: "░",
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.Color("8"),
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
