package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with FinQuest styling. Allow, when set,
// filters single-character key presses.
type TextInput struct {
	Model textinput.Model
	Label string
	Allow func(r rune) bool
	err   string
}

// NewTextInput creates a new focused text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{Model: ti, Label: label}
}

// Digits accepts 0-9.
func Digits(r rune) bool { return r >= '0' && r <= '9' }

// Money accepts digits and a decimal point.
func Money(r rune) bool { return Digits(r) || r == '.' }

// Hex accepts characters of a 0x-prefixed hex string.
func Hex(r rune) bool {
	return Digits(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == 'x' || r == 'X'
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Allow != nil {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := []rune(kmsg.String())
			if len(key) == 1 && !t.Allow(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// SetError shows msg under the input. An empty msg clears it.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}

// View renders the label, the input and any error.
func (t TextInput) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Model.Focused() {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	view := labelStyle.Render(t.Label) + "\n" + t.Model.View()
	if t.err != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(t.err)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}
