// Package quizsetup lets the player pick the area and difficulty of a
// quiz before it starts.
package quizsetup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens"
	quizscreen "github.com/torredebabel/icfes/internal/screens/quiz"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

type pickedMsg struct {
	ID string
}

// SetupScreen is a two-step picker: area, then difficulty.
type SetupScreen struct {
	deps screens.Deps
	menu components.Menu
	area string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.EscHandler = (*SetupScreen)(nil)

// New creates a SetupScreen.
func New(deps screens.Deps) *SetupScreen {
	s := &SetupScreen{deps: deps}
	s.menu = choiceMenu(quiz.Areas, nil)
	return s
}

func choiceMenu(choices []quiz.Choice, describe func(quiz.Choice) string) components.Menu {
	items := make([]components.MenuItem, len(choices))
	for i, c := range choices {
		id := c.ID
		label := c.Label
		if describe != nil {
			label = describe(c)
		}
		items[i] = components.MenuItem{Label: label, Action: func() tea.Cmd {
			return func() tea.Msg { return pickedMsg{ID: id} }
		}}
	}
	return components.NewMenu(items)
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Nuevo quiz"
}

func (s *SetupScreen) HandlesEsc() bool { return true }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pickedMsg:
		if s.area == "" {
			s.area = msg.ID
			s.menu = choiceMenu(quiz.Difficulties, func(c quiz.Choice) string {
				return fmt.Sprintf("%s · %d preguntas", c.Label, quiz.DefaultQuestionCount(c.ID))
			})
			return s, nil
		}
		return s, s.launch(msg.ID)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			if s.area != "" {
				s.area = ""
				s.menu = choiceMenu(quiz.Areas, nil)
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// launch replaces this screen with the quiz so that leaving the quiz
// returns to the screen that opened the setup.
func (s *SetupScreen) launch(difficulty string) tea.Cmd {
	if s.deps.NewQuiz == nil {
		return nil
	}
	next := quizscreen.New(s.deps.NewQuiz(), s.deps.Attempts, s.deps.Logger(), s.area, difficulty, 0)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	if s.area == "" {
		b.WriteString(theme.Title.Render("¿Qué área quieres practicar?"))
	} else {
		b.WriteString(theme.Title.Render(quiz.Label(s.area)))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Elige la dificultad"))
	}
	b.WriteString("\n\n")
	b.WriteString(components.Card(s.menu.View(), cw))

	return components.Frame(b.String(), width, height)
}
