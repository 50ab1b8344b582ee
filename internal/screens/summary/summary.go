package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/ui/layout"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

// SummaryScreen displays the feedback of a finished quiz session.
type SummaryScreen struct {
	session  quiz.Session
	feedback api.Feedback
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(session quiz.Session, feedback api.Feedback) *SummaryScreen {
	return &SummaryScreen{session: session, feedback: feedback}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Resultados"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continuar"},
		{Key: "Esc", Description: "Inicio"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	fb := s.feedback
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "¡Sesión completada!"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s · %s", quiz.Label(s.session.Area), quiz.Label(s.session.Difficulty))))
	b.WriteString("\n\n")

	total := fb.TotalQuestions
	if total <= 0 {
		total = s.session.TotalQuestions
	}
	score := fb.FinalScore
	if score <= 0 {
		score = s.session.Score
	}
	stats := fmt.Sprintf("Preguntas: %d        Puntaje: %d        XP: %d", total, score, s.session.XP)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), stats))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(accuracyColor(fb.Accuracy)).Bold(true),
		fmt.Sprintf("Precisión: %.1f%%", fb.Accuracy)))
	b.WriteString("\n\n")

	if fb.Message != "" {
		msg := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(fb.Message)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, msg))
		b.WriteString("\n\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	section := func(title string, items []string, c color.Color) {
		if len(items) == 0 {
			return
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(title)))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, it := range items {
			b.WriteString(center(lipgloss.NewStyle().Foreground(c), "• "+it))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	section("Fortalezas", fb.Strengths, theme.Success)
	section("Para mejorar", fb.Improvements, theme.Accent)

	return b.String()
}

// accuracyColor grades an accuracy percentage.
func accuracyColor(pct float64) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}
