package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are picked with the
// arrows and Enter or directly with the digit keys 1-9.
type MultiChoice struct {
	Question string
	Keys     []string
	Options  []string
	Selected int

	correct string
	chosen  string
}

// NewMultiChoice creates a selector. keys[i] labels options[i].
func NewMultiChoice(question string, keys, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Keys:     keys,
		Options:  options,
	}
}

// Update handles navigation. It returns the index of a picked option,
// or -1 when nothing was picked.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	if m.Revealed() {
		return m, -1
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Options) > 0 {
			return m, m.Selected
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(m.Options) {
				m.Selected = idx
				return m, idx
			}
		}
	}
	return m, -1
}

// SelectedKey returns the key of the highlighted option.
func (m MultiChoice) SelectedKey() string {
	if m.Selected < 0 || m.Selected >= len(m.Keys) {
		return ""
	}
	return m.Keys[m.Selected]
}

// Reveal marks the chosen and the correct option.
func (m *MultiChoice) Reveal(chosenKey, correctKey string) {
	m.chosen = chosenKey
	m.correct = correctKey
}

// Revealed reports whether the answer has been revealed.
func (m MultiChoice) Revealed() bool {
	return m.chosen != ""
}

// View renders the selector.
func (m MultiChoice) View() string {
	s := ""
	if m.Question != "" {
		s = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question) + "\n\n"
	}

	for i, opt := range m.Options {
		key := ""
		if i < len(m.Keys) {
			key = m.Keys[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Revealed() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, key, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed() && key == m.correct:
			style = style.Foreground(theme.Success).Bold(true)
		case m.Revealed() && key == m.chosen:
			style = style.Foreground(theme.Error).Bold(true)
		case m.Revealed():
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(line) + "\n"
	}
	return s
}
