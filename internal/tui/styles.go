package tui

import "github.com/charmbracelet/lipgloss"

// Keypad palette: operators amber, functions light grey, digits dark grey.
var (
	ColorOperator = lipgloss.Color("#F59E0B") // Amber
	ColorFunction = lipgloss.Color("#A5A5A5") // Light Gray
	ColorDigit    = lipgloss.Color("#333333") // Dark Gray
	ColorPressed  = lipgloss.Color("#FDE68A") // Pale Amber

	ColorText     = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextDark = lipgloss.Color("#0F172A") // Slate 900
	ColorMuted    = lipgloss.Color("#6B7280") // Gray
	ColorError    = lipgloss.Color("#EF4444") // Red
	ColorBgPanel  = lipgloss.Color("#1E293B") // Slate 800
)

var (
	DisplayStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgPanel).
			Bold(true).
			Width(gridWidth).
			Height(displayHeight).
			Padding(0, 1).
			Align(lipgloss.Right, lipgloss.Bottom)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorOperator)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	FrameStyle = lipgloss.NewStyle().
			Padding(padY, padX)
)

func buttonStyle(k buttonKind, width int, pressed bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Width(width).
		Height(buttonHeight).
		Bold(true).
		Align(lipgloss.Center, lipgloss.Center)

	switch k {
	case kindOperator:
		s = s.Background(ColorOperator).Foreground(ColorText)
	case kindFunction:
		s = s.Background(ColorFunction).Foreground(ColorTextDark)
	default:
		s = s.Background(ColorDigit).Foreground(ColorText)
	}

	if pressed {
		s = s.Background(ColorPressed).Foreground(ColorTextDark)
	}
	return s
}

// RenderKeyHint renders a key hint for the status line.
func RenderKeyHint(key, desc string) string {
	return lipgloss.NewStyle().Foreground(ColorOperator).Bold(true).Render(key) +
		StatusStyle.Render(" "+desc)
}
