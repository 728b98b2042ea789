package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Dashboard palette
	accentCyan   = lipgloss.Color("#00D7FF")
	accentPink   = lipgloss.Color("#FF5FD7")
	accentGreen  = lipgloss.Color("#5FFF87")
	accentYellow = lipgloss.Color("#FFD75F")
	accentOrange = lipgloss.Color("#FF8700")
	accentRed    = lipgloss.Color("#FF5F5F")
	darkBg       = lipgloss.Color("#10142A")
	dimWhite     = lipgloss.Color("#B0B0B0")

	baseStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentPink).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Background(accentPink).
			Foreground(darkBg).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(darkBg).
			Background(accentCyan).
			Bold(true).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	rowSelectedStyle = lipgloss.NewStyle().
				Foreground(accentGreen).
				Bold(true).
				PaddingLeft(1)

	rowInactiveStyle = lipgloss.NewStyle().
				Foreground(dimWhite).
				Faint(true).
				PaddingLeft(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(accentYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(accentRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(accentOrange).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)
)

// tokenWarningStyle picks a style for a token warning level
func tokenWarningStyle(level string) lipgloss.Style {
	switch level {
	case "expired":
		return errorStyle
	case "critical":
		return errorStyle
	case "warning":
		return warningStyle
	default:
		return successStyle
	}
}
