package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorWhite = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim   = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	trackingStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	idleStyle     = lipgloss.NewStyle().Foreground(colorDim)
	pinnedStyle   = lipgloss.NewStyle().Foreground(colorGreen)

	entryStyle = lipgloss.NewStyle().Foreground(colorWhite)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			MarginTop(1)
)
