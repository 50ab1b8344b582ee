package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type chosenMsg string

func item(label string, disabled bool) MenuItem {
	return MenuItem{
		Label:    label,
		Hint:     "no disponible",
		Disabled: disabled,
		Action: func() tea.Cmd {
			return func() tea.Msg { return chosenMsg(label) }
		},
	}
}

func press(m Menu, key string) (Menu, tea.Cmd) {
	var msg tea.KeyPressMsg
	switch key {
	case "up":
		msg = tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	default:
		msg = tea.KeyPressMsg{Code: rune(key[0]), Text: key}
	}
	return m.Update(msg)
}

func TestMenu_SkipsDisabledAndWraps(t *testing.T) {
	m := NewMenu([]MenuItem{item("QUIZ", true), item("ROL", false), item("HISTORIAL", true), item("SALIR", false)})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled entry 1", m.Selected)
	}

	m, _ = press(m, "down")
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = press(m, "down")
	if m.Selected != 1 {
		t.Errorf("down from the last entry should wrap to 1, got %d", m.Selected)
	}
	m, _ = press(m, "up")
	if m.Selected != 3 {
		t.Errorf("up from the first entry should wrap to 3, got %d", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	m := NewMenu([]MenuItem{item("QUIZ", false), item("SALIR", false)})
	_, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if got := cmd(); got != chosenMsg("QUIZ") {
		t.Errorf("msg = %v, want QUIZ", got)
	}
}

func TestMenu_DigitShortcut(t *testing.T) {
	m := NewMenu([]MenuItem{item("QUIZ", false), item("ROL", true), item("SALIR", false)})

	m, cmd := press(m, "3")
	if m.Selected != 2 || cmd == nil || cmd() != chosenMsg("SALIR") {
		t.Errorf("digit 3: Selected = %d", m.Selected)
	}

	m, cmd = press(m, "2")
	if cmd != nil {
		t.Error("a disabled entry must not run")
	}
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want unchanged 2", m.Selected)
	}

	if _, cmd = press(m, "9"); cmd != nil {
		t.Error("out of range digit must not run")
	}
}

func TestMenu_SelectRejectsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{item("QUIZ", false), item("ROL", true)})
	if m.Select(1) || m.Select(5) || m.Select(-1) {
		t.Error("Select accepted an invalid entry")
	}
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected)
	}
}

func TestMenu_ViewShowsHintForDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{item("QUIZ", true), item("SALIR", false)})
	view := m.View()
	if !strings.Contains(view, "QUIZ · no disponible") {
		t.Errorf("view missing disabled hint:\n%s", view)
	}
	if !strings.Contains(view, "▸ SALIR") {
		t.Errorf("view missing selection marker:\n%s", view)
	}
	if got := strings.Join(m.Labels(), ","); got != "QUIZ,SALIR" {
		t.Errorf("Labels = %q", got)
	}
}

func TestProgressBar_Counter(t *testing.T) {
	tests := []struct {
		done, total int
		counter     string
		fraction    float64
	}{
		{3, 10, "3/10", 0.3},
		{0, 5, "0/5", 0},
		{12, 10, "10/10", 1},
		{2, 0, "2/?", 0},
	}
	for _, tt := range tests {
		p := NewProgressBar(tt.done, tt.total, 30)
		if got := p.Counter(); got != tt.counter {
			t.Errorf("Counter(%d,%d) = %q, want %q", tt.done, tt.total, got, tt.counter)
		}
		if got := p.Fraction(); got != tt.fraction {
			t.Errorf("Fraction(%d,%d) = %v, want %v", tt.done, tt.total, got, tt.fraction)
		}
		if !strings.Contains(p.View(), tt.counter) {
			t.Errorf("View(%d,%d) missing counter %q", tt.done, tt.total, tt.counter)
		}
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct{ frame, want int }{
		{10, minContentWidth},
		{50, 44},
		{200, maxContentWidth},
	}
	for _, tt := range tests {
		if got := ContentWidth(tt.frame); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.frame, got, tt.want)
		}
	}
}
