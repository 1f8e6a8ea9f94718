package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF5F56", "#FFA500", "#626262", "#5FAFFF")

// Palette is a small stylesheet built with named [lipgloss.Style] fields.
type Palette struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	link     lipgloss.Style
	selected lipgloss.Style
}

func NewPalette(t, s, e, w, h, l string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		heading:  NewBold(t),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		link:     NewStyle(l).Underline(true),
		selected: NewBold(s),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
