// Package ui provides consistent styling and views for the wlregion CLI
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray
)

var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubheaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)

	// Region map cells
	FilledCellStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	EmptyCellStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)
)

var (
	IconSuccess = "✓"
	IconError   = "✗"
)

// FormatAppHeader renders a title with an optional subtitle
func FormatAppHeader(title, subtitle string) string {
	header := HeaderStyle.Render(title)
	if subtitle == "" {
		return header
	}
	return header + " " + SubtleStyle.Render(subtitle)
}

// FormatResult renders a success or failure line
func FormatResult(success bool, message string) string {
	if success {
		return SuccessStyle.Render(IconSuccess + " " + message)
	}
	return ErrorStyle.Render(IconError + " " + message)
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int) string {
	if width <= 0 {
		width = 50
	}
	return SubtleStyle.Render(strings.Repeat("─", width))
}

// FormatCount renders "n noun" with a naive plural
func FormatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
