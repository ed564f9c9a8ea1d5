// Package connect links a wallet address to the learner's profile.
package connect

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
	"github.com/finquest/finquest/internal/wallet"
)

type connectDoneMsg struct {
	conn wallet.Connection
	err  error
}

// ConnectScreen verifies and connects a wallet.
type ConnectScreen struct {
	engine     *engine.Engine
	input      components.TextInput
	connecting bool
	status     string
	isErr      bool
}

var _ screen.Screen = (*ConnectScreen)(nil)
var _ screen.KeyHintProvider = (*ConnectScreen)(nil)
var _ screen.Closer = (*ConnectScreen)(nil)

// New creates a ConnectScreen.
func New(eng *engine.Engine) *ConnectScreen {
	in := components.NewTextInput("Wallet address", "0x…", 42)
	in.Allow = components.Hex
	return &ConnectScreen{engine: eng, input: in}
}

func (s *ConnectScreen) Init() tea.Cmd { return s.input.Focus() }

func (s *ConnectScreen) Title() string { return "Wallet" }

func (s *ConnectScreen) KeyHints() []layout.KeyHint {
	if s.connecting {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Connect"}}
}

// Close cancels a verification still in flight.
func (s *ConnectScreen) Close() {
	if s.connecting {
		s.engine.Cancel(engine.WalletResource)
	}
}

func (s *ConnectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case connectDoneMsg:
		s.connecting = false
		if msg.err != nil {
			s.status, s.isErr = msg.err.Error(), true
			return s, nil
		}
		s.status, s.isErr = "Connected "+msg.conn.Short(), false
		s.input.SetValue("")
		return s, nil

	case tea.KeyMsg:
		if s.connecting {
			return s, nil
		}
		if msg.String() == "enter" {
			return s, s.connect(strings.TrimSpace(s.input.Value()))
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ConnectScreen) connect(addr string) tea.Cmd {
	if _, err := wallet.Normalize(addr); err != nil {
		s.input.SetError(err.Error())
		return nil
	}
	s.input.SetError("")
	s.connecting = true
	s.status = ""
	eng := s.engine
	return func() tea.Msg {
		conn, err := eng.ConnectWallet(context.Background(), addr)
		return connectDoneMsg{conn: conn, err: err}
	}
}

func (s *ConnectScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	if conn, ok := s.engine.Wallet(); ok {
		card := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Connected") + "\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Render(conn.Address) + "\n" +
			theme.Hint.Render("since "+conn.ConnectedAt.Format("Jan 02, 2006"))
		b.WriteString(components.ArcadeCard(card, cw) + "\n\n")
	} else {
		b.WriteString(theme.Hint.Render("Connect a wallet to mint badges as collectibles.") + "\n\n")
	}

	if s.connecting {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("Verifying address...") + "\n")
	} else {
		b.WriteString(s.input.View() + "\n")
	}

	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Gold)
		if s.isErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n" + style.Render(s.status) + "\n")
	}

	return components.Centered(lipgloss.NewStyle().Width(cw).Render(b.String()), width)
}
