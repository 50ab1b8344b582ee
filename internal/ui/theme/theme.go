package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: tower stone and torch light.
var (
	Primary   = lipgloss.Color("#7C3AED") // Royal Purple
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

// Role colors, keyed by role category.
var RoleColors = map[string]lipgloss.Style{
	"TANK":       lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
	"DPS":        lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
	"SUPPORT":    lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
	"SPECIALIST": lipgloss.NewStyle().Foreground(lipgloss.Color("#A855F7")).Bold(true),
}

// Role returns the style for a role category, or Body when unknown.
func Role(category string) lipgloss.Style {
	if s, ok := RoleColors[category]; ok {
		return s
	}
	return Body
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)
)
