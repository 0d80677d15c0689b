// Package theme holds the terminal styles shared by help output and log
// formatting. Colors use the ANSI palette so they follow the user's terminal
// scheme; lipgloss drops them entirely when NO_COLOR is set or output is not
// a terminal.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors encapsulates the palette used by a theme.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Orange    lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Blue      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
}

// Theme bundles the palette with the styles built from it.
type Theme struct {
	Colors Colors

	Accent lipgloss.Style
	Muted  lipgloss.Style
	Italic lipgloss.Style
	Bold   lipgloss.Style
}

// DefaultTheme is the theme used by all slimductor output.
var DefaultTheme = NewTheme()

// NewTheme returns a theme built on the terminal's ANSI palette.
func NewTheme() *Theme {
	colors := Colors{
		Green:     lipgloss.Color("2"),
		Yellow:    lipgloss.Color("3"),
		Red:       lipgloss.Color("1"),
		Orange:    lipgloss.Color("208"),
		Cyan:      lipgloss.Color("6"),
		Blue:      lipgloss.Color("4"),
		Violet:    lipgloss.Color("5"),
		MutedText: lipgloss.Color("8"),
	}

	return &Theme{
		Colors: colors,
		Accent: lipgloss.NewStyle().Foreground(colors.Cyan),
		Muted:  lipgloss.NewStyle().Foreground(colors.MutedText),
		Italic: lipgloss.NewStyle().Italic(true),
		Bold:   lipgloss.NewStyle().Bold(true),
	}
}
