package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/ui/theme"
)

// MenuItem is one menu entry. A disabled entry is drawn dimmed next to
// its Hint and can never be selected.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu. Up and down wrap around and skip disabled
// entries; the digits 1-9 pick an entry directly.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled entry selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i := range items {
		if m.Select(i) {
			break
		}
	}
	return m
}

// Select moves the selection to entry i. It reports false, leaving the
// selection alone, when i is out of range or disabled.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

// Labels returns the entry labels in order.
func (m Menu) Labels() []string {
	out := make([]string, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.Label
	}
	return out
}

func (m *Menu) move(step int) {
	n := len(m.Items)
	for k := 1; k < n; k++ {
		if m.Select(((m.Selected+step*k)%n + n) % n) {
			return
		}
	}
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	it := m.Items[m.Selected]
	if it.Disabled || it.Action == nil {
		return nil
	}
	return it.Action()
}

func (m Menu) Init() tea.Cmd {
	return nil
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.move(-1)
	case "down", "j", "tab":
		m.move(1)
	case "enter":
		return m, m.activate()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
			if m.Select(n - 1) {
				return m, m.activate()
			}
		}
	}
	return m, nil
}

// View renders the menu as a list.
func (m Menu) View() string {
	selected := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
	idle := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	lines := make([]string, len(m.Items))
	for i, it := range m.Items {
		switch {
		case it.Disabled:
			line := "   " + it.Label
			if it.Hint != "" {
				line += " · " + it.Hint
			}
			lines[i] = dim.Render(line)
		case i == m.Selected:
			lines[i] = selected.Render(" ▸ " + it.Label + " ")
		default:
			lines[i] = idle.Render("   " + it.Label)
		}
	}
	return strings.Join(lines, "\n")
}

// Buttons renders the menu as a column of fixed-width buttons.
func (m Menu) Buttons(width int) string {
	buttons := make([]string, len(m.Items))
	for i, it := range m.Items {
		state := ButtonIdle
		switch {
		case it.Disabled:
			state = ButtonDisabled
		case i == m.Selected:
			state = ButtonSelected
		}
		buttons[i] = Button(it.Label, state, width)
	}
	return strings.Join(buttons, "\n")
}
