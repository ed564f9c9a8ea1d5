package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/ui/theme"
)

// Smallest terminal the app renders in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the top bar: app name, screen title, then the
// learner's XP and streak on the right.
func RenderHeader(title string, xp, streak int, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  FinQuest")
	stats := lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("%d XP", xp)) +
		"   " + lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d day streak", streak))

	return bar(width).Render(spread(name, theme.Body.Render(title), stats, max(width-4, 0)))
}

// spread places center in the middle of inner and pins left and right to
// the edges, keeping at least one space between parts.
func spread(left, center, right string, inner int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)
	return left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
}

// RenderFooter renders the bottom bar of key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderBanner renders a celebration banner centered in width.
func RenderBanner(title, message string, width int) string {
	body := title
	if message != "" {
		body += "\n" + lipgloss.NewStyle().Bold(false).Foreground(theme.Text).Render(message)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Banner.Render(body))
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
