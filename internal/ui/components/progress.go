package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/ui/theme"
)

// ProgressBar shows how many of a known number of steps are done, such as
// questions answered in a session.
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a bar for done of total steps, width columns wide
// including the counter.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0,1]. An unknown total is 0.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// Counter returns "done/total", with "?" for an unknown total.
func (p ProgressBar) Counter() string {
	if p.Total <= 0 {
		return fmt.Sprintf("%d/?", p.Done)
	}
	return fmt.Sprintf("%d/%d", min(p.Done, p.Total), p.Total)
}

func (p ProgressBar) View() string {
	counter := "  " + p.Counter()
	barWidth := max(p.Width-lipgloss.Width(counter), 4)
	filled := int(float64(barWidth) * p.Fraction())

	return lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
}
