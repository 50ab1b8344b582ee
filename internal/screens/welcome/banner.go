package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/torredebabel/icfes/internal/ui/theme"
)

// BannerArt is the block-letter BABEL title.
const BannerArt = `
 ██████╗  █████╗ ██████╗ ███████╗██╗
 ██╔══██╗██╔══██╗██╔══██╗██╔════╝██║
 ██████╔╝███████║██████╔╝█████╗  ██║
 ██╔══██╗██╔══██║██╔══██╗██╔══╝  ██║
 ██████╔╝██║  ██║██████╔╝███████╗███████╗
 ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚══════╝╚══════╝`

// BannerCompact is the title for narrow terminals.
const BannerCompact = "T O R R E   D E   B A B E L"

// RenderBanner returns the banner styled in the primary color, with
// "TORRE DE" above it. Uses a compact fallback for terminals narrower
// than 46 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 46 {
		return style.Render(BannerCompact)
	}
	over := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render("T O R R E   D E")
	return lipgloss.JoinVertical(lipgloss.Center, over, style.Render(BannerArt))
}
