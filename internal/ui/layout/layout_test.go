package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) {
		t.Error("79 columns should be too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestRenderHeaderShowsRoleAndXP(t *testing.T) {
	h := RenderHeader("Quiz", Status{Role: "TANK", XP: 120}, 100)
	for _, want := range []string{"Torre de Babel", "Quiz", "TANK", "120 XP"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if got := lipgloss.Height(h); got != 3 {
		t.Errorf("header height = %d, want 3", got)
	}
}

func TestRenderHeaderWithoutRole(t *testing.T) {
	h := RenderHeader("", Status{}, 90)
	if !strings.Contains(h, "sin rol") {
		t.Error("expected placeholder for missing role")
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("x", Status{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Volver"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}
