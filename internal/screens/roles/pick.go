package roles

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

type pickedMsg struct {
	Record role.Record
}

// PickScreen lets the player choose a role directly or draw one at random.
type PickScreen struct {
	roles screens.Roles
	menu  components.Menu

	// draw picks the random category. Tests replace it.
	draw func() role.Category
}

var _ screen.Screen = (*PickScreen)(nil)
var _ screen.KeyHintProvider = (*PickScreen)(nil)

// NewPick creates a PickScreen.
func NewPick(roles screens.Roles) *PickScreen {
	s := &PickScreen{
		roles: roles,
		draw:  func() role.Category { return role.ClassifyRandom(nil) },
	}

	items := make([]components.MenuItem, 0, len(role.Categories)+1)
	for _, c := range role.Categories {
		info, _ := role.InfoFor(c)
		items = append(items, components.MenuItem{
			Label: fmt.Sprintf("%s %s", info.Icon, info.Name),
			Action: func() tea.Cmd {
				return func() tea.Msg { return pickedMsg{Record: role.ManualRecord(c)} }
			},
		})
	}
	items = append(items, components.MenuItem{
		Label: "🎲 Al azar",
		Action: func() tea.Cmd {
			c := s.draw()
			return func() tea.Msg { return pickedMsg{Record: role.RandomRecord(c)} }
		},
	})
	s.menu = components.NewMenu(items)
	return s
}

func (s *PickScreen) Init() tea.Cmd {
	return nil
}

func (s *PickScreen) Title() string {
	return "Elegir rol"
}

func (s *PickScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *PickScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(pickedMsg); ok {
		next := NewResult(s.roles, msg.Record)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *PickScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Elige tu rol en la torre"))
	b.WriteString("\n\n")
	b.WriteString(components.Card(s.menu.View(), cw))
	b.WriteString("\n\n")

	if s.menu.Selected < len(role.Categories) {
		info, _ := role.InfoFor(role.Categories[s.menu.Selected])
		b.WriteString(theme.Body.Width(cw).Render(info.Description))
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(strings.Join(info.Traits, " · ")))
	} else {
		b.WriteString(theme.Hint.Render("Deja que la torre decida por ti."))
	}

	return components.Frame(b.String(), width, height)
}
