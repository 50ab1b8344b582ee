package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

// renderQuestionView renders the current question, and its verdict once
// an answer has been judged.
func (s *QuizScreen) renderQuestionView(width int) string {
	sess := s.state.Session
	q := sess.CurrentQuestion

	var b strings.Builder

	// Info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", qz.Label(sess.Area), qz.Label(sess.Difficulty)))

	number := sess.Progress.Answered + 1
	if s.state.Phase == qz.PhaseResultShown {
		number = sess.Progress.Answered
	}
	total := sess.Progress.Total
	if total <= 0 {
		total = sess.TotalQuestions
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("P %d/%d  %s %d  %s %d",
			min(number, total), total,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("pts"),
			sess.Score,
			lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("XP"),
			sess.XP,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar(sess.Progress.Answered, sess.Progress.Total, max(width-8, 10))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if q == nil {
		return b.String()
	}

	textWidth := min(width-8, 76)
	if q.Title != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(textWidth).Foreground(theme.Primary).Bold(true).Render(q.Title)))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(q.Content)))
	b.WriteString("\n")
	if q.ImageURL != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Width(textWidth).Render("Imagen: "+q.ImageURL)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Render(s.choice.View())))

	if s.state.Phase == qz.PhaseResultShown && s.state.Result != nil {
		b.WriteString("\n")
		b.WriteString(s.renderResult(width, textWidth))
	} else if s.loading {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("Enviando respuesta...")))
	}

	return b.String()
}

// renderResult renders the verdict of the last answer.
func (s *QuizScreen) renderResult(width, textWidth int) string {
	res := s.state.Result
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	if res.IsCorrect {
		b.WriteString(center(theme.Correct, "¡Correcto!"))
	} else {
		b.WriteString(center(theme.Incorrect, "Incorrecto"))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("Respuesta correcta: %s", res.CorrectAnswer)))
	}
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent),
		fmt.Sprintf("+%d pts   +%d XP", res.PointsEarned, res.XPEarned)))
	b.WriteString("\n\n")

	if res.Explanation != "" {
		exp := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(res.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}

	hint := "Enter para continuar"
	if s.loading {
		hint = "Cargando..."
	} else if res.SessionComplete {
		hint = "Enter para ver tus resultados"
	}
	b.WriteString(center(theme.Hint, hint))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "¿Abandonar el quiz?"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "La sesión no se guardará en tu historial."))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error), "[S] Sí, salir"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, seguir"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparando tu sesión...")
}

// renderError renders an error message.
func renderError(width int, errMsg string, canRetry bool) string {
	hint := "Esc para volver."
	if canRetry {
		hint = "R para reintentar · Esc para volver."
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  %s", errMsg, hint))
}
