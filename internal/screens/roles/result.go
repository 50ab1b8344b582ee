// Package roles holds the role selection and role result screens.
package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

type saveState int

const (
	saving saveState = iota
	saved
	savedLocally
	saveRejected
)

type savedMsg struct {
	Err error
}

// ResultScreen presents an assigned role and records it.
type ResultScreen struct {
	roles  screens.Roles
	record role.Record
	state  saveState
	errMsg string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// NewResult creates a ResultScreen for r. roles may be nil, in which
// case nothing is recorded.
func NewResult(roles screens.Roles, r role.Record) *ResultScreen {
	return &ResultScreen{roles: roles, record: r}
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.roles == nil {
		s.state = savedLocally
		return nil
	}
	roles, r := s.roles, s.record
	return func() tea.Msg {
		return savedMsg{Err: roles.Complete(context.Background(), r)}
	}
}

func (s *ResultScreen) Title() string {
	return "Tu rol"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continuar"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		switch {
		case msg.Err == nil:
			s.state = saved
		case api.IsAuthError(msg.Err):
			s.state = saveRejected
			s.errMsg = "Inicia sesión para guardar tu rol en la torre."
		default:
			var cv *role.ContractViolation
			if errors.As(msg.Err, &cv) {
				s.state = saveRejected
				s.errMsg = msg.Err.Error()
			} else {
				s.state = savedLocally
			}
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	info, ok := role.InfoFor(s.record.Role)
	if !ok {
		return components.Frame(theme.Incorrect.Render("Rol desconocido: "+string(s.record.Role)), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(intro(s.record)))
	b.WriteString("\n\n")
	b.WriteString(RenderEmblem(info.Category))
	b.WriteString("\n")
	b.WriteString(theme.Role(string(info.Category)).Render(fmt.Sprintf("%s  %s", info.Icon, info.Name)))
	b.WriteString("\n\n")

	var card strings.Builder
	card.WriteString(theme.Body.Render(info.Description))
	card.WriteString("\n\n")
	card.WriteString(theme.Warning.Render(strings.Join(info.Traits, " · ")))
	card.WriteString("\n\n")
	card.WriteString(theme.Hint.Render("Estrategia: " + info.Strategy))
	if len(s.record.Scores) > 0 {
		card.WriteString("\n\n")
		card.WriteString(renderScores(s.record.Scores))
	}
	b.WriteString(components.Card(card.String(), cw))
	b.WriteString("\n\n")
	b.WriteString(s.statusLine())

	return components.Frame(b.String(), width, height)
}

func intro(r role.Record) string {
	switch r.Method {
	case role.MethodSurvey:
		return "Según tus respuestas, tu rol es"
	case role.MethodRandom:
		return "El destino eligió por ti"
	default:
		return "Elegiste ser"
	}
}

func (s *ResultScreen) statusLine() string {
	switch s.state {
	case saving:
		return theme.Hint.Render("Guardando...")
	case saved:
		return theme.Correct.Render("✓ Rol guardado")
	case savedLocally:
		return theme.Warning.Render("Guardado en este equipo. Se enviará con «icfes role sync».")
	default:
		return theme.Incorrect.Render(s.errMsg)
	}
}

// renderScores renders one bar per category in the fixed order.
func renderScores(scores role.Scores) string {
	maxScore := 1
	for _, v := range scores {
		maxScore = max(maxScore, v)
	}
	var lines []string
	for _, c := range role.Categories {
		v := scores[c]
		bar := strings.Repeat("█", v*16/maxScore)
		lines = append(lines, fmt.Sprintf("%-10s %s %d",
			c, theme.Role(string(c)).Render(bar), v))
	}
	return lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
}
