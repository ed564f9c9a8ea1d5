package escrow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finquest/finquest/internal/apperr"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestLock_Validation(t *testing.T) {
	_, err := Lock(0, 3, 0, t0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Lock(30, 0, 0, t0)
	assert.ErrorIs(t, err, ErrInvalidQuota)

	e, err := Lock(30, 3, 0, t0)
	require.NoError(t, err)
	assert.Equal(t, StatusLocked, e.Status)
	assert.NotEmpty(t, e.ID)
}

func TestAdvance_ThresholdCorrectness(t *testing.T) {
	e, err := Lock(30, 3, 0, t0)
	require.NoError(t, err)

	assert.Nil(t, e.Advance(0, 1, t0))
	assert.Nil(t, e.Advance(1, 2, t0))
	assert.Equal(t, StatusLocked, e.Status)
	assert.Equal(t, 2, e.CompletedCount())

	tr := e.Advance(2, 3, t0)
	require.NotNil(t, tr)
	assert.Equal(t, StatusLocked, tr.From)
	assert.Equal(t, StatusReady, tr.To)
	assert.Equal(t, StatusReady, e.Status)
	assert.Equal(t, 3, e.CompletedCount())
}

func TestAdvance_FiresExactlyOnce(t *testing.T) {
	e, _ := Lock(30, 3, 0, t0)
	fired := 0
	// Replays, duplicates and completions beyond the quota.
	for _, step := range [][2]int{{0, 1}, {1, 1}, {1, 2}, {2, 3}, {2, 3}, {3, 3}, {3, 4}, {4, 9}} {
		if e.Advance(step[0], step[1], t0) != nil {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
	assert.Equal(t, 3, e.CompletedCount(), "count is capped at the quota")
}

func TestAdvance_CountsFromBaseline(t *testing.T) {
	e, _ := Lock(10, 2, 5, t0)
	assert.Equal(t, 7, e.Boundary())
	assert.Nil(t, e.Advance(5, 6, t0))
	require.NotNil(t, e.Advance(6, 7, t0))
	assert.Equal(t, StatusReady, e.Status)
}

func TestRelease_RejectedWhileLocked(t *testing.T) {
	e, _ := Lock(30, 3, 0, t0)
	before := e.Snapshot()

	tr, err := e.Release(t0)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.Equal(t, before, e.Snapshot())
}

func TestScenario_LockCompleteReleaseTwice(t *testing.T) {
	e, err := Lock(30, 3, 0, t0)
	require.NoError(t, err)

	// Challenges A and B.
	e.Advance(0, 1, t0)
	e.Advance(1, 2, t0)
	require.Equal(t, StatusLocked, e.Status)

	// Challenge C.
	require.NotNil(t, e.Advance(2, 3, t0))
	require.Equal(t, StatusReady, e.Status)

	tr, err := e.Release(t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, tr.To)
	assert.Equal(t, int64(30), e.LockedAmount)

	after := e.Snapshot()
	_, err = e.Release(t0.Add(2 * time.Minute))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyReleased))
	assert.Equal(t, apperr.ReasonAlreadyReleased, apperr.ReasonOf(err))
	assert.Equal(t, after, e.Snapshot())
}

func TestReleased_IsTerminal(t *testing.T) {
	e, _ := Lock(30, 1, 0, t0)
	e.Advance(0, 1, t0)
	_, err := e.Release(t0)
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Nil(t, e.Advance(1, 5, t0))
	assert.Nil(t, e.Advance(0, 1, t0))
	assert.Equal(t, snap, e.Snapshot())
	assert.Equal(t, StatusReleased, e.Status)
}

func TestReadyInvariant(t *testing.T) {
	e, _ := Lock(5, 2, 0, t0)
	check := func() {
		t.Helper()
		ready := e.CompletedCount() >= e.RequiredCount && e.Status != StatusReleased
		assert.Equal(t, ready, e.Status == StatusReady)
	}
	check()
	e.Advance(0, 1, t0)
	check()
	e.Advance(1, 2, t0)
	check()
	_, _ = e.Release(t0)
	check()
}

func TestExportRestore(t *testing.T) {
	e, _ := Lock(30, 3, 1, t0)
	e.Advance(1, 3, t0)

	restored, err := Restore(e.Export())
	require.NoError(t, err)
	assert.Equal(t, e.Snapshot(), restored.Snapshot())
	assert.Equal(t, e.Boundary(), restored.Boundary())

	// A saved ready escrow comes back ready; a tampered status is re-derived.
	st := e.Export()
	st.CompletedCount = 3
	st.Status = string(StatusLocked)
	restored, err = Restore(st)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, restored.Status)
}
