package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary = lipgloss.Color("#FF6B35") // orange, October brand
	colorBlue    = lipgloss.Color("#4A90E2") // border blue
	colorMuted   = lipgloss.Color("#6C757D") // gray
	colorSuccess = lipgloss.Color("#6BCF7F") // green
	colorDanger  = lipgloss.Color("#FF6B6B") // red
	colorWhite   = lipgloss.Color("#FFFFFF")

	// Title
	styleAppTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Console lines
	styleInfo = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleBullet = lipgloss.NewStyle().
			Foreground(colorPrimary)

	// Tables
	styleTableBorder = lipgloss.NewStyle().
				Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				Padding(0, 1)

	styleTableCell = lipgloss.NewStyle().
			Padding(0, 1)

	styleTableKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Padding(0, 1)

	// Footer / help
	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Loading screen
	styleSpinner = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(1, 3).
			Width(60)
)
