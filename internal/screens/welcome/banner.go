package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗███╗   ██╗ ██████╗ ██╗   ██╗███████╗███████╗████████╗
 ██╔════╝██║████╗  ██║██╔═══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
 █████╗  ██║██╔██╗ ██║██║   ██║██║   ██║█████╗  ███████╗   ██║
 ██╔══╝  ██║██║╚██╗██║██║▄▄ ██║██║   ██║██╔══╝  ╚════██║   ██║
 ██║     ██║██║ ╚████║╚██████╔╝╚██████╔╝███████╗███████║   ██║
 ╚═╝     ╚═╝╚═╝  ╚═══╝ ╚══▀▀═╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "F I N Q U E S T"

// RenderBanner returns the FINQUEST banner, or a compact fallback for
// terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 68 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
