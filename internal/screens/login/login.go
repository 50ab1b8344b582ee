// Package login implements the sign-in screen.
package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-playground/validator/v10"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

const (
	fieldEmail = iota
	fieldPassword
)

var validate = validator.New()

type loginDoneMsg struct {
	Err error
}

// LoginScreen asks for email and password and stores the issued token.
type LoginScreen struct {
	sessions screens.Sessions
	email    components.TextInput
	password components.TextInput
	focus    int
	loading  bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(sessions screens.Sessions) *LoginScreen {
	password := components.NewTextInput("contraseña", true, 128)
	password.Blur()
	return &LoginScreen{
		sessions: sessions,
		email:    components.NewTextInput("correo@ejemplo.com", false, 254),
		password: password,
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Init()
}

func (s *LoginScreen) Title() string {
	return "Iniciar sesión"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Cambiar campo"},
		{Key: "Enter", Description: "Entrar"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = errorText(msg.Err)
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.toggle()
		case "enter":
			if s.focus == fieldEmail {
				return s, s.toggle()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == fieldEmail {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) toggle() tea.Cmd {
	if s.focus == fieldEmail {
		s.focus = fieldPassword
		s.email.Blur()
		return s.password.Focus()
	}
	s.focus = fieldEmail
	s.password.Blur()
	return s.email.Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()

	if err := validate.Var(email, "required,email"); err != nil {
		s.errMsg = "Escribe un correo válido."
		return nil
	}
	if password == "" {
		s.errMsg = "Escribe tu contraseña."
		return nil
	}
	if s.sessions == nil {
		s.errMsg = "El inicio de sesión no está disponible."
		return nil
	}

	s.errMsg = ""
	s.loading = true
	sessions := s.sessions
	return func() tea.Msg {
		return loginDoneMsg{Err: sessions.Login(context.Background(), email, password)}
	}
}

func errorText(err error) string {
	var ue *api.UpstreamError
	switch {
	case api.IsAuthError(err):
		return "Correo o contraseña incorrectos."
	case errors.As(err, &ue) && ue.StatusCode == 0:
		return "No se pudo contactar al servidor."
	case errors.As(err, &ue) && ue.Message != "":
		return ue.Message
	default:
		return err.Error()
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	label := func(text string, focused bool) string {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if focused {
			style = style.Foreground(theme.ArcadeYellow).Bold(true)
		}
		return style.Render(text)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("TORRE DE BABEL"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Inicia sesión para entrar a la torre"))
	b.WriteString("\n\n")

	form := fmt.Sprintf("%s\n%s\n\n%s\n%s",
		label("Correo", s.focus == fieldEmail), s.email.View(),
		label("Contraseña", s.focus == fieldPassword), s.password.View())
	b.WriteString(components.Card(lipgloss.NewStyle().Align(lipgloss.Left).Render(form), cw))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("Verificando..."))
	case s.errMsg != "":
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	return components.Frame(b.String(), width, height)
}
