// Package vault is the escrow screen: lock a reward, watch the quota fill,
// then release it.
package vault

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/finquest/finquest/internal/budget"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/screen"
	"github.com/finquest/finquest/internal/ui/components"
	"github.com/finquest/finquest/internal/ui/layout"
	"github.com/finquest/finquest/internal/ui/theme"
)

type releaseDoneMsg struct {
	snap engine.EscrowSnapshot
	err  error
}

// VaultScreen locks and releases escrowed rewards.
type VaultScreen struct {
	engine *engine.Engine

	amount components.TextInput
	quota  components.TextInput
	focus  int // 0 amount, 1 quota

	releasing bool
	status    string
	isErr     bool
}

var _ screen.Screen = (*VaultScreen)(nil)
var _ screen.KeyHintProvider = (*VaultScreen)(nil)
var _ screen.Closer = (*VaultScreen)(nil)

// New creates a VaultScreen. defaultQuota prefills the quota field.
func New(eng *engine.Engine, defaultQuota int) *VaultScreen {
	amount := components.NewTextInput("Reward to lock", "25.00", 12)
	amount.Allow = components.Money
	quota := components.NewTextInput("Challenges required", strconv.Itoa(defaultQuota), 3)
	quota.Allow = components.Digits
	quota.SetValue(strconv.Itoa(defaultQuota))
	quota.Blur()

	return &VaultScreen{engine: eng, amount: amount, quota: quota}
}

func (s *VaultScreen) Init() tea.Cmd {
	if s.canLock() {
		return s.amount.Focus()
	}
	return nil
}

func (s *VaultScreen) Title() string { return "Escrow" }

func (s *VaultScreen) KeyHints() []layout.KeyHint {
	esc := s.engine.Escrow()
	switch {
	case s.releasing:
		return []layout.KeyHint{{Key: "c", Description: "Cancel release"}}
	case s.canLock():
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Lock reward"},
		}
	case esc.Status == escrow.StatusReady:
		return []layout.KeyHint{{Key: "r", Description: "Release"}}
	default:
		return []layout.KeyHint{{Key: "", Description: "Complete challenges to fill the quota"}}
	}
}

// Close cancels an in-flight release when the screen is left.
func (s *VaultScreen) Close() {
	if esc := s.engine.Escrow(); esc.Active {
		s.engine.Cancel(engine.EscrowResource(esc.ID))
	}
}

// canLock reports whether no escrow is open.
func (s *VaultScreen) canLock() bool {
	esc := s.engine.Escrow()
	return !esc.Active || esc.Status == escrow.StatusReleased
}

func (s *VaultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case releaseDoneMsg:
		s.releasing = false
		if msg.err != nil {
			s.status, s.isErr = msg.err.Error(), true
		} else {
			s.status, s.isErr = fmt.Sprintf("Released %s. Enjoy your reward!", budget.FormatCents(msg.snap.LockedAmount)), false
		}
		return s, nil

	case tea.KeyMsg:
		if s.releasing {
			if msg.String() == "c" {
				s.Close()
			}
			return s, nil
		}
		if s.canLock() {
			return s.updateForm(msg)
		}
		if msg.String() == "r" && s.engine.Escrow().Status == escrow.StatusReady {
			return s, s.release()
		}
	}
	return s, nil
}

func (s *VaultScreen) updateForm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		s.focus = 1 - s.focus
		if s.focus == 0 {
			s.quota.Blur()
			return s, s.amount.Focus()
		}
		s.amount.Blur()
		return s, s.quota.Focus()
	case "enter":
		s.lock()
		return s, nil
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.amount, cmd = s.amount.Update(msg)
	} else {
		s.quota, cmd = s.quota.Update(msg)
	}
	return s, cmd
}

func (s *VaultScreen) lock() {
	s.amount.SetError("")
	s.quota.SetError("")

	cents, err := budget.ParseCents(s.amount.Value())
	if err != nil {
		s.amount.SetError("Enter an amount like 25.00")
		return
	}
	required, err := strconv.Atoi(s.quota.Value())
	if err != nil {
		s.quota.SetError("Enter a whole number")
		return
	}

	snap, err := s.engine.LockEscrow(cents, required)
	if err != nil {
		s.status, s.isErr = err.Error(), true
		return
	}
	s.status, s.isErr = fmt.Sprintf("Locked %s. Complete %d challenges to release it.",
		budget.FormatCents(snap.LockedAmount), snap.RequiredCount), false
	s.amount.SetValue("")
}

func (s *VaultScreen) release() tea.Cmd {
	s.releasing = true
	s.status = ""
	eng := s.engine
	return func() tea.Msg {
		snap, err := eng.ReleaseEscrow(context.Background())
		return releaseDoneMsg{snap: snap, err: err}
	}
}

func (s *VaultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	esc := s.engine.Escrow()

	var b strings.Builder
	b.WriteString("\n")

	if esc.Active {
		b.WriteString(components.ArcadeCard(renderEscrow(esc, cw-6), cw) + "\n\n")
	}

	switch {
	case s.releasing:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("Releasing... waiting for the ledger") + "\n")
	case s.canLock():
		b.WriteString(s.amount.View() + "\n\n" + s.quota.View() + "\n")
	default:
		btn := components.NewButton("r", "Release reward", esc.Status == escrow.StatusReady, nil)
		b.WriteString(btn.View() + "\n")
	}

	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Gold)
		if s.isErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n" + style.Render(s.status) + "\n")
	}

	if n := len(esc.History); n > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("%d earlier rewards released", n)) + "\n")
	}

	return components.Centered(lipgloss.NewStyle().Width(cw).Render(b.String()), width)
}

func renderEscrow(esc engine.EscrowSnapshot, width int) string {
	statusStyle := map[escrow.Status]lipgloss.Style{
		escrow.StatusLocked:   lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		escrow.StatusReady:    lipgloss.NewStyle().Foreground(theme.Success).Bold(true),
		escrow.StatusReleased: lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true),
	}[esc.Status]

	head := fmt.Sprintf("%s  %s",
		lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(budget.FormatCents(esc.LockedAmount)),
		statusStyle.Render(strings.ToUpper(string(esc.Status))))
	bar := components.NewProgressBar("Challenges", esc.CompletedCount, esc.RequiredCount, width)
	if esc.Status != escrow.StatusLocked {
		bar.Fill = theme.Success
	}
	return head + "\n\n" + bar.View()
}
