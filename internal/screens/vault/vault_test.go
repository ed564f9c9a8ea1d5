package vault

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finquest/finquest/internal/apperr"
	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/task"
)

func newVault(t *testing.T) (*VaultScreen, *engine.Engine, *task.MockLedger) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	remote := task.NewMockLedger()
	eng := engine.New(engine.Deps{Catalog: cat, Remote: remote})
	return New(eng, 1), eng, remote
}

func press(s *VaultScreen, r rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: r})
	return cmd
}

func TestReleaseKeyInertWhileLocked(t *testing.T) {
	s, eng, remote := newVault(t)
	_, err := eng.LockEscrow(500, 1)
	require.NoError(t, err)

	assert.Nil(t, press(s, 'r'))
	assert.False(t, s.releasing)
	assert.Empty(t, s.status)
	assert.Zero(t, remote.CallCount())
	assert.Equal(t, escrow.StatusLocked, eng.Escrow().Status)
}

func TestRelease(t *testing.T) {
	s, eng, _ := newVault(t)
	_, err := eng.LockEscrow(500, 1)
	require.NoError(t, err)
	_, err = eng.CompleteChallenge("no-spend-day")
	require.NoError(t, err)

	cmd := press(s, 'r')
	require.NotNil(t, cmd)
	assert.True(t, s.releasing)

	s.Update(cmd())
	assert.False(t, s.releasing)
	assert.False(t, s.isErr)
	assert.Contains(t, s.status, "$5.00")
	assert.Equal(t, escrow.StatusReleased, eng.Escrow().Status)
}

func TestCloseCancelsInFlightRelease(t *testing.T) {
	s, eng, remote := newVault(t)
	remote.Block = make(chan struct{})
	snap, err := eng.LockEscrow(500, 1)
	require.NoError(t, err)
	_, err = eng.CompleteChallenge("no-spend-day")
	require.NoError(t, err)

	cmd := press(s, 'r')
	require.NotNil(t, cmd)
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()

	require.Eventually(t, func() bool { return eng.Pending(engine.EscrowResource(snap.ID)) }, time.Second, time.Millisecond)
	s.Close()

	done, ok := (<-msgs).(releaseDoneMsg)
	require.True(t, ok)
	assert.Equal(t, apperr.ReasonCancelled, apperr.ReasonOf(done.err))
	assert.Equal(t, escrow.StatusReady, eng.Escrow().Status)
	assert.Equal(t, int64(500), eng.Escrow().LockedAmount)
	assert.Zero(t, remote.CallCount())

	// The late result still lands on the screen without touching the escrow.
	s.Update(done)
	assert.False(t, s.releasing)
	assert.True(t, s.isErr)
	assert.Equal(t, escrow.StatusReady, eng.Escrow().Status)
}

func TestCancelKeyWhileReleasing(t *testing.T) {
	s, eng, remote := newVault(t)
	remote.Block = make(chan struct{})
	snap, err := eng.LockEscrow(500, 1)
	require.NoError(t, err)
	_, err = eng.CompleteChallenge("no-spend-day")
	require.NoError(t, err)

	cmd := press(s, 'r')
	require.NotNil(t, cmd)
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	require.Eventually(t, func() bool { return eng.Pending(engine.EscrowResource(snap.ID)) }, time.Second, time.Millisecond)

	assert.Nil(t, press(s, 'r'), "a second release is ignored while one is in flight")
	assert.Nil(t, press(s, 'c'))

	done := (<-msgs).(releaseDoneMsg)
	assert.Equal(t, apperr.ReasonCancelled, apperr.ReasonOf(done.err))
	assert.False(t, eng.Pending(engine.EscrowResource(snap.ID)))
}

func TestCloseWithoutEscrow(t *testing.T) {
	s, eng, _ := newVault(t)
	assert.NotPanics(t, s.Close)
	assert.False(t, eng.Escrow().Active)
}
