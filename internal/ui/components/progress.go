package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/ui/theme"
)

// ProgressBar displays count out of total as a horizontal bar.
type ProgressBar struct {
	Label string
	Count int
	Total int
	Width int
	Fill  color.Color
}

// NewProgressBar creates a progress bar filled with the secondary color.
func NewProgressBar(label string, count, total, width int) ProgressBar {
	return ProgressBar{Label: label, Count: count, Total: total, Width: width, Fill: theme.Secondary}
}

// Fraction returns count/total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Count)/float64(p.Total), 0), 1)
}

// View renders the label, the bar and a count suffix.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := fmt.Sprintf("  %d/%d", p.Count, p.Total)
	barWidth := max(p.Width-lipgloss.Width(result)-len(suffix), 4)

	filled := int(float64(barWidth) * p.Fraction())
	result += lipgloss.NewStyle().Background(p.Fill).Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	return result
}
