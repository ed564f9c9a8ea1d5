// Package theme holds the FinQuest palette and the shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Base palette.
var (
	Primary   = lipgloss.Color("#10B981") // emerald
	Secondary = lipgloss.Color("#38BDF8") // sky
	Accent    = lipgloss.Color("#F59E0B") // amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#0F172A")
	BgCard  = lipgloss.Color("#1E293B")
	Border  = lipgloss.Color("#334155")
)

// Reward colors. Gold marks anything collectible; the tier colors follow
// badge tier order, baby first.
var (
	Gold       = lipgloss.Color("#FACC15")
	TierColors = [3]color.Color{
		lipgloss.Color("#CD7F32"),
		lipgloss.Color("#C0C0C0"),
		lipgloss.Color("#FACC15"),
	}
)

// TierColor returns the color for the tier at position i, or TextDim when i
// is out of range.
func TierColor(i int) color.Color {
	if i < 0 || i >= len(TierColors) {
		return TextDim
	}
	return TierColors[i]
}

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Banner frames a celebration above the active screen.
	Banner = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Gold).
		Foreground(Gold).
		Bold(true).
		Padding(0, 2)
)

// Money styles color a signed amount.
var (
	Inflow  = lipgloss.NewStyle().Foreground(Success)
	Outflow = lipgloss.NewStyle().Foreground(Error)
)

// Amount picks Inflow or Outflow by the sign of cents.
func Amount(cents int64) lipgloss.Style {
	if cents < 0 {
		return Outflow
	}
	return Inflow
}

// Selection and answer states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Locked     = lipgloss.NewStyle().Foreground(Border)

	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
