package ui

import (
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

type theme struct {
	accent lipgloss.Color
	subtle lipgloss.Color
	text   lipgloss.Color
	ok     lipgloss.Color
	fail   lipgloss.Color
}

var (
	darkTheme = theme{
		accent: lipgloss.Color("#FF5700"),
		subtle: lipgloss.Color("#7D7D7D"),
		text:   lipgloss.Color("#DDDDDD"),
		ok:     lipgloss.Color("#89F0CB"),
		fail:   lipgloss.Color("#FF5F87"),
	}
	lightTheme = theme{
		accent: lipgloss.Color("#C73E00"),
		subtle: lipgloss.Color("#656565"),
		text:   lipgloss.Color("#1B1B1B"),
		ok:     lipgloss.Color("#1C8760"),
		fail:   lipgloss.Color("#D7005F"),
	}
)

// isDark resolves a theme name; "auto" asks the terminal.
func isDark(name string) bool {
	switch name {
	case "light":
		return false
	case "auto":
		return te.HasDarkBackground()
	default:
		return true
	}
}

func themeNamed(name string) theme {
	if isDark(name) {
		return darkTheme
	}
	return lightTheme
}

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	item     lipgloss.Style
	subtle   lipgloss.Style
	ok       lipgloss.Style
	fail     lipgloss.Style
	help     lipgloss.Style
	status   lipgloss.Style
	app      lipgloss.Style
}

func newStyles(t theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(t.accent).
			Padding(0, 1).
			Bold(true),
		selected: lipgloss.NewStyle().Foreground(t.accent).Bold(true),
		item:     lipgloss.NewStyle().Foreground(t.text),
		subtle:   lipgloss.NewStyle().Foreground(t.subtle),
		ok:       lipgloss.NewStyle().Foreground(t.ok),
		fail:     lipgloss.NewStyle().Foreground(t.fail),
		help:     lipgloss.NewStyle().Foreground(t.subtle).MarginTop(1),
		status:   lipgloss.NewStyle().Foreground(t.ok).Italic(true),
		app:      lipgloss.NewStyle().Padding(1, 2),
	}
}
