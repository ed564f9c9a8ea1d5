package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/ui/theme"
)

// Cursor tracks the selected row of a list with Len rows.
type Cursor struct {
	Index int
	Len   int
}

// Update moves the cursor on up/down keys, clamped to the list.
func (c Cursor) Update(msg tea.Msg) Cursor {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Index > 0 {
			c.Index--
		}
	case "down", "j":
		if c.Index < c.Len-1 {
			c.Index++
		}
	}
	return c
}

// Window returns the [start, end) rows to show so the cursor stays visible
// within visible rows.
func (c Cursor) Window(visible int) (int, int) {
	if visible <= 0 || c.Len <= visible {
		return 0, c.Len
	}
	start := max(c.Index-visible/2, 0)
	end := start + visible
	if end > c.Len {
		end = c.Len
		start = end - visible
	}
	return start, end
}

// Row renders one list line with a selection marker.
func Row(text string, selected bool, style lipgloss.Style) string {
	if selected {
		return theme.Selected.Render("▸ " + text)
	}
	return style.Render("  " + text)
}
