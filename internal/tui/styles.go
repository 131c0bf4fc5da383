package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	warnFg    = lipgloss.Color("#F59E0B")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)
	axisStyle  = lipgloss.NewStyle().Foreground(baseDimFg)
)

// Mark colours, as hex so they can be blended.
const (
	markColor      = "#1F77B4" // steelblue-ish base
	alternateColor = "#D62728" // selection flash target
	hoverColor     = "#FF7F0E"
	labelColor     = "#E6E6E6"
)
