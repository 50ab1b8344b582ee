package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens"
	"github.com/torredebabel/icfes/internal/screens/assessment"
	"github.com/torredebabel/icfes/internal/screens/history"
	"github.com/torredebabel/icfes/internal/screens/login"
	"github.com/torredebabel/icfes/internal/screens/quizsetup"
	"github.com/torredebabel/icfes/internal/screens/roles"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
)

// profileMsg carries the signed-in user and their stats.
type profileMsg struct {
	Email string
	Stats *api.UserStats
	Err   error
}

type loggedOutMsg struct{}

// HomeScreen is the main menu of the tower.
type HomeScreen struct {
	deps    screens.Deps
	menu    components.Menu
	email   string
	stats   *api.UserStats
	loading bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.rebuildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadProfile()
}

// Resume reloads the profile: a quiz, login or role pick may have
// changed it.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadProfile()
}

func (h *HomeScreen) Title() string {
	return "Inicio"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (h *HomeScreen) loggedIn() bool {
	return h.email != ""
}

func (h *HomeScreen) loadProfile() tea.Cmd {
	sessions, profile := h.deps.Sessions, h.deps.Profile
	if sessions == nil {
		return nil
	}
	h.loading = true
	return func() tea.Msg {
		ctx := context.Background()
		email := sessions.CurrentEmail(ctx)
		if email == "" || profile == nil {
			return profileMsg{Email: email}
		}
		stats, err := profile.Stats(ctx)
		return profileMsg{Email: email, Stats: stats, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		h.loading = false
		h.email = msg.Email
		h.stats = msg.Stats
		h.errMsg = ""
		switch {
		case api.IsAuthError(msg.Err):
			h.errMsg = "Tu sesión expiró. Vuelve a iniciar sesión."
		case msg.Err != nil:
			h.errMsg = "No se pudo cargar tu perfil."
			h.deps.Logger().WithError(msg.Err).Warn("load profile")
		}
		h.rebuildMenu()
		return h, h.statusCmd()

	case loggedOutMsg:
		return h, h.loadProfile()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// statusCmd publishes the header summary.
func (h *HomeScreen) statusCmd() tea.Cmd {
	var st layout.Status
	if h.stats != nil {
		st.Role = h.stats.Assessments.AssignedRole
		st.XP = h.stats.UserInfo.ExperiencePoints
	}
	return func() tea.Msg { return screens.StatusMsg{Status: st} }
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) rebuildMenu() {
	d := h.deps
	var items []components.MenuItem

	if h.loggedIn() {
		items = append(items,
			components.MenuItem{Label: "INICIAR QUIZ", Hint: "sin conexión", Action: func() tea.Cmd {
				return push(quizsetup.New(d))
			}, Disabled: d.NewQuiz == nil},
			components.MenuItem{Label: "TEST VOCACIONAL", Hint: "sin preguntas", Action: func() tea.Cmd {
				return push(assessment.New(d.Roles, d.Battery))
			}, Disabled: d.Battery.Len() == 0},
			components.MenuItem{Label: "ELEGIR ROL", Hint: "sin conexión", Action: func() tea.Cmd {
				return push(roles.NewPick(d.Roles))
			}, Disabled: d.Roles == nil},
		)
	} else {
		items = append(items, components.MenuItem{Label: "INICIAR SESIÓN", Hint: "sin conexión", Action: func() tea.Cmd {
			return push(login.New(d.Sessions))
		}, Disabled: d.Sessions == nil})
	}

	items = append(items, components.MenuItem{Label: "HISTORIAL", Hint: "sin registro local", Action: func() tea.Cmd {
		return push(history.New(d.Attempts))
	}, Disabled: d.Attempts == nil})

	if h.loggedIn() {
		items = append(items, components.MenuItem{Label: "CERRAR SESIÓN", Action: func() tea.Cmd {
			sessions := d.Sessions
			return func() tea.Msg {
				if err := sessions.Logout(context.Background()); err != nil {
					d.Logger().WithError(err).Warn("logout")
				}
				return loggedOutMsg{}
			}
		}})
	}
	items = append(items, components.MenuItem{Label: "SALIR", Action: func() tea.Cmd {
		return tea.Quit
	}})

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	h.menu.Select(selected)
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := layout.IsCompact(width, height+8)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	var category role.Category
	if h.stats != nil {
		category = role.Category(h.stats.Assessments.AssignedRole)
	}
	if !compact {
		sections = append(sections, renderEmblemBox(category, cw))
	}

	sections = append(sections, renderStatsBar(h.stats, h.email, h.loading, cw, compact))
	if note := h.note(); note != "" {
		sections = append(sections, renderNote(note, cw))
	}

	sections = append(sections, renderMenu(h.menu, cw, compact))

	content := strings.Join(sections, "\n\n")
	return components.Frame(content, width, height)
}

// note is the one-line message under the stats bar.
func (h *HomeScreen) note() string {
	switch {
	case h.errMsg != "":
		return h.errMsg
	case !h.loggedIn() && !h.loading:
		return "Inicia sesión para entrar a la torre."
	case h.stats != nil && h.stats.NeedsOnboarding():
		return "Completa el test vocacional para descubrir tu rol."
	}
	return ""
}
