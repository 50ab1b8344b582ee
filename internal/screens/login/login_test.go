package login

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/router"
)

type mockSessions struct {
	email    string
	password string
	err      error
	calls    int
}

func (m *mockSessions) Login(_ context.Context, email, password string) error {
	m.calls++
	m.email, m.password = email, password
	return m.err
}

func (m *mockSessions) Logout(context.Context) error { return nil }

func (m *mockSessions) CurrentEmail(context.Context) string { return m.email }

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestLoginScreen_Title(t *testing.T) {
	if got := New(nil).Title(); got != "Iniciar sesión" {
		t.Errorf("Title = %q", got)
	}
}

func TestLoginScreen_Success(t *testing.T) {
	sessions := &mockSessions{}
	s := New(sessions)

	typeText(s, "ana@example.com")
	s.Update(specialKey(tea.KeyTab))
	if s.focus != fieldPassword {
		t.Fatal("expected focus on the password field")
	}
	typeText(s, "secreto")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	if !s.loading {
		t.Error("expected loading while the login runs")
	}
	_, cmd = s.Update(cmd())
	if sessions.email != "ana@example.com" || sessions.password != "secreto" {
		t.Errorf("login got %q / %q", sessions.email, sessions.password)
	}
	if cmd == nil {
		t.Fatal("expected navigation after login")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg after login")
	}
}

func TestLoginScreen_EnterOnEmailMovesFocus(t *testing.T) {
	s := New(&mockSessions{})
	typeText(s, "ana@example.com")
	s.Update(specialKey(tea.KeyEnter))
	if s.focus != fieldPassword {
		t.Error("Enter on the email field should move to the password")
	}
}

func TestLoginScreen_ValidatesLocally(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"bad email", "ana", "x", "correo válido"},
		{"no password", "ana@example.com", "", "contraseña"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessions{}
			s := New(sessions)
			typeText(s, tt.email)
			s.Update(specialKey(tea.KeyTab))
			typeText(s, tt.password)

			_, cmd := s.Update(specialKey(tea.KeyEnter))
			if cmd != nil {
				t.Error("invalid input must not reach the backend")
			}
			if !strings.Contains(s.errMsg, tt.want) {
				t.Errorf("errMsg = %q, want it to mention %q", s.errMsg, tt.want)
			}
			if sessions.calls != 0 {
				t.Errorf("login calls = %d, want 0", sessions.calls)
			}
		})
	}
}

func TestLoginScreen_RejectedCredentials(t *testing.T) {
	sessions := &mockSessions{err: &api.AuthenticationError{}}
	s := New(sessions)
	typeText(s, "ana@example.com")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "mala")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	_, next := s.Update(cmd())
	if next != nil {
		t.Error("expected to stay on the screen after a rejected login")
	}
	if s.errMsg != "Correo o contraseña incorrectos." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if !strings.Contains(s.View(80, 24), "incorrectos") {
		t.Error("expected the error in the view")
	}
}

func TestLoginScreen_Unreachable(t *testing.T) {
	if got := errorText(&api.UpstreamError{}); got != "No se pudo contactar al servidor." {
		t.Errorf("errorText = %q", got)
	}
	if got := errorText(&api.UpstreamError{StatusCode: 500, Message: "boom"}); got != "boom" {
		t.Errorf("errorText = %q", got)
	}
}

func TestLoginScreen_PasswordIsMasked(t *testing.T) {
	s := New(&mockSessions{})
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secreto")
	if strings.Contains(s.View(80, 24), "secreto") {
		t.Error("password must not be rendered in clear text")
	}
}
