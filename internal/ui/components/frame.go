package components

import (
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/ui/theme"
)

const (
	framePadding    = 6
	minContentWidth = 20
	maxContentWidth = 64
)

// ContentWidth is the width every card inside a frame of frameWidth
// columns is rendered at, so stacked sections line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-framePadding, minContentWidth), maxContentWidth)
}

// Frame draws the tower border around a screen's content and centers the
// content in it.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card boxes one section of a screen at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState is how a menu button is drawn.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// Button renders a bordered, fixed-width menu button.
func Button(label string, state ButtonState, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return style.
			Foreground(theme.TextDim).
			BorderForeground(theme.Border).
			Render(label)
	default:
		return style.
			Foreground(theme.Text).
			BorderForeground(theme.Border).
			Render(label)
	}
}
