package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/screens/roles"
	"github.com/torredebabel/icfes/internal/screens/welcome"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	text := welcome.BannerArt
	if compact {
		text = welcome.BannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(strings.TrimPrefix(text, "\n")))
}

// renderEmblemBox renders the role emblem centered at content width.
func renderEmblemBox(c role.Category, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(roles.RenderEmblem(c))
}

// renderStatsBar renders the player summary in a bordered box matching
// content width.
func renderStatsBar(stats *api.UserStats, email string, loading bool, cw int, compact bool) string {
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	xpStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var text string
	switch {
	case loading:
		text = dimStyle.Render("Cargando perfil...")
	case stats == nil && email == "":
		text = dimStyle.Render("Sin sesión")
	case stats == nil:
		text = dimStyle.Render(email)
	default:
		ap := stats.AcademicProgress
		roleText := dimStyle.Render("sin rol")
		if r := stats.Assessments.AssignedRole; r != "" {
			roleText = theme.Role(r).Render(r)
		}
		if compact {
			text = fmt.Sprintf("%s %s %s %s",
				roleText,
				xpStyle.Render(fmt.Sprintf("✦%d", stats.UserInfo.ExperiencePoints)),
				accStyle.Render(fmt.Sprintf("◎%.0f%%", ap.Accuracy)),
				streakStyle.Render(fmt.Sprintf("⚡%d", ap.CurrentStreak)),
			)
		} else {
			text = fmt.Sprintf("%s  %s  %s\n%s  %s",
				roleText,
				xpStyle.Render(fmt.Sprintf("✦ NIVEL %d · %d XP", stats.UserInfo.Level, stats.UserInfo.ExperiencePoints)),
				accStyle.Render(fmt.Sprintf("◎ %.0f%%", ap.Accuracy)),
				streakStyle.Render(fmt.Sprintf("⚡ RACHA %d (máx %d)", ap.CurrentStreak, ap.MaxStreak)),
				dimStyle.Render(fmt.Sprintf("%d/%d correctas", ap.CorrectAnswers, ap.QuestionsAnswered)),
			)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// renderNote renders a one-line notice under the stats bar.
func renderNote(note string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render(note)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu centers the menu at content width: bordered buttons, or a
// plain list on terminals too small for them.
func renderMenu(m components.Menu, cw int, compact bool) string {
	block := m.Buttons(buttonWidth)
	if compact {
		block = m.View()
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}
