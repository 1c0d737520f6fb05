package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#10B981")
	danger  = lipgloss.Color("#EF4444")
	amber   = lipgloss.Color("#F59E0B")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle    = lipgloss.NewStyle().Foreground(success)
	errStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(amber)
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(12)
)

// noteColors maps note colors to terminal colors.
var noteColors = map[string]lipgloss.Color{
	"red":    "#EF4444",
	"orange": "#F97316",
	"yellow": "#EAB308",
	"green":  "#22C55E",
	"teal":   "#14B8A6",
	"blue":   "#3B82F6",
	"purple": "#A855F7",
	"pink":   "#EC4899",
}

// swatch renders a colored bullet for a note color.
func swatch(color string) string {
	c, ok := noteColors[color]
	if !ok {
		return mutedStyle.Render("•")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}
