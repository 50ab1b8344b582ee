// Package assessment runs the vocational battery one question at a time.
package assessment

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens"
	"github.com/torredebabel/icfes/internal/screens/roles"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

var optionKeys = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

// AssessmentScreen asks the battery questions and hands the
// classification to the role result screen.
type AssessmentScreen struct {
	roles      screens.Roles
	assessment *role.Assessment
	choice     components.MultiChoice
	errMsg     string
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen over battery.
func New(roles screens.Roles, battery role.Battery) *AssessmentScreen {
	s := &AssessmentScreen{
		roles:      roles,
		assessment: role.NewAssessment(battery),
	}
	s.loadQuestion()
	return s
}

func (s *AssessmentScreen) loadQuestion() {
	q, ok := s.assessment.Current()
	if !ok {
		return
	}
	texts := make([]string, len(q.Options))
	for i, opt := range q.Options {
		texts[i] = opt.Text
	}
	keys := optionKeys
	if len(texts) < len(keys) {
		keys = keys[:len(texts)]
	}
	s.choice = components.NewMultiChoice(q.Text, keys, texts)
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return nil
}

func (s *AssessmentScreen) Title() string {
	return "Test vocacional"
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-4", Description: "Responder"},
		{Key: "↑↓ Enter", Description: "Elegir"},
		{Key: "Esc", Description: "Salir"},
	}
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.assessment.Done() {
		return s, nil
	}

	var idx int
	s.choice, idx = s.choice.Update(msg)
	if idx < 0 {
		return s, nil
	}
	if err := s.assessment.Record(idx); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if !s.assessment.Done() {
		s.loadQuestion()
		return s, nil
	}

	res, err := s.assessment.Result()
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	next := roles.NewResult(s.roles, role.VocationalRecord(res))
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *AssessmentScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	total := s.assessment.Total()
	n := min(s.assessment.Answered()+1, total)
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Pregunta %d de %d", n, total)))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(s.assessment.Answered(), total, cw).View())
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(cw - 6).Align(lipgloss.Left).Render(s.choice.View())
	b.WriteString(components.Card(body, cw))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	return components.Frame(b.String(), width, height)
}
