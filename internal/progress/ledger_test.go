package progress

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/finquest/finquest/internal/apperr"
)

type fakeRewards struct {
	units      map[string]int
	challenges map[string]int
}

func (f fakeRewards) UnitReward(id string) (int, bool) {
	xp, ok := f.units[id]
	return xp, ok
}

func (f fakeRewards) ChallengeReward(id string) (int, bool) {
	xp, ok := f.challenges[id]
	return xp, ok
}

func newTestLedger() *Ledger {
	return NewLedger(fakeRewards{
		units:      map[string]int{"u1": 50, "u2": 75, "u3": 1},
		challenges: map[string]int{"a": 10, "b": 10, "c": 10, "d": 5},
	})
}

func TestRecordUnitCompletion_Pass(t *testing.T) {
	l := newTestLedger()

	res, err := l.RecordUnitCompletion("u1", 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Passed || !res.NewlyCompleted {
		t.Errorf("result = %+v, want passed and newly completed", res)
	}
	if res.XPGranted != 50 || l.XP() != 50 {
		t.Errorf("XP granted = %d, total = %d; want 50, 50", res.XPGranted, l.XP())
	}
	if !l.IsUnitCompleted("u1") {
		t.Error("u1 should be completed")
	}
}

func TestRecordUnitCompletion_Idempotent(t *testing.T) {
	l := newTestLedger()

	if _, err := l.RecordUnitCompletion("u1", 100); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	res, err := l.RecordUnitCompletion("u1", 100)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if res.NewlyCompleted || res.XPGranted != 0 {
		t.Errorf("repeat completion result = %+v, want no effect", res)
	}
	if l.XP() != 50 {
		t.Errorf("XP = %d, want 50", l.XP())
	}

	// A failing retry on a completed unit also has no effect.
	res, _ = l.RecordUnitCompletion("u1", 10)
	if res.XPGranted != 0 || l.XP() != 50 {
		t.Errorf("failing retry on completed unit changed XP: %+v, total %d", res, l.XP())
	}
}

func TestRecordUnitCompletion_FailGrantsHalf(t *testing.T) {
	l := newTestLedger()

	// 2 of 3 correct is 66.67%.
	res, err := l.RecordUnitCompletion("u2", 200.0/3.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Passed || res.NewlyCompleted {
		t.Errorf("result = %+v, want not passed", res)
	}
	if res.XPGranted != 37 {
		t.Errorf("XP granted = %d, want floor(75/2) = 37", res.XPGranted)
	}
	if l.IsUnitCompleted("u2") {
		t.Error("failed unit must not be marked completed")
	}

	// The learner may retry and pass.
	res, _ = l.RecordUnitCompletion("u2", 100)
	if !res.NewlyCompleted || l.XP() != 37+75 {
		t.Errorf("retry result = %+v, XP = %d", res, l.XP())
	}
}

func TestRecordUnitCompletion_RewardOfOneFailsToZero(t *testing.T) {
	l := newTestLedger()
	res, _ := l.RecordUnitCompletion("u3", 0)
	if res.XPGranted != 0 {
		t.Errorf("XP granted = %d, want 0", res.XPGranted)
	}
}

func TestRecordUnitCompletion_Errors(t *testing.T) {
	l := newTestLedger()

	_, err := l.RecordUnitCompletion("missing", 100)
	if apperr.ReasonOf(err) != apperr.ReasonUnknownUnit {
		t.Errorf("unknown unit: got %v", err)
	}
	_, err = l.RecordUnitCompletion("u1", 101)
	if apperr.ReasonOf(err) != apperr.ReasonInvalidScore {
		t.Errorf("score out of range: got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("kind = %q, want validation", apperr.KindOf(err))
	}
	if l.XP() != 0 || l.Snapshot().CompletedUnitCount() != 0 {
		t.Error("rejected calls must not change state")
	}
}

func TestRecordChallengeCompletion_CrossesQuotaOnce(t *testing.T) {
	l := newTestLedger()
	const boundary = 3

	var crossings int
	for _, id := range []string{"a", "b", "b", "c", "c", "d"} {
		res, err := l.RecordChallengeCompletion(id, boundary)
		if err != nil {
			t.Fatalf("complete %q: %v", id, err)
		}
		if res.CrossedQuota {
			crossings++
			if id != "c" {
				t.Errorf("quota crossed on %q, want c", id)
			}
		}
	}
	if crossings != 1 {
		t.Errorf("quota crossed %d times, want 1", crossings)
	}
	if l.ChallengeCount() != 4 {
		t.Errorf("count = %d, want 4", l.ChallengeCount())
	}
	if l.XP() != 35 {
		t.Errorf("XP = %d, want 35", l.XP())
	}
}

func TestRecordChallengeCompletion_Duplicate(t *testing.T) {
	l := newTestLedger()
	first, _ := l.RecordChallengeCompletion("a", 0)
	second, _ := l.RecordChallengeCompletion("a", 0)

	if !first.Recorded || second.Recorded {
		t.Errorf("recorded = %v, %v; want true, false", first.Recorded, second.Recorded)
	}
	if second.Previous != 1 || second.Current != 1 || second.XPGranted != 0 {
		t.Errorf("duplicate result = %+v", second)
	}
	if second.CrossedQuota {
		t.Error("duplicate must not cross quota")
	}
}

func TestRecordChallengeCompletion_Unknown(t *testing.T) {
	l := newTestLedger()
	_, err := l.RecordChallengeCompletion("zzz", 1)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Reason != apperr.ReasonUnknownChallenge {
		t.Errorf("got %v, want UnknownChallenge", err)
	}
}

func TestMonotonicity_RandomSequences(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	units := []string{"u1", "u2", "u3", "missing"}
	challenges := []string{"a", "b", "c", "d", "nope"}

	for run := 0; run < 50; run++ {
		l := newTestLedger()
		prevXP, prevUnits, prevChalls := 0, 0, 0
		for step := 0; step < 40; step++ {
			if r.IntN(2) == 0 {
				_, _ = l.RecordUnitCompletion(units[r.IntN(len(units))], float64(r.IntN(121))-10)
			} else {
				_, _ = l.RecordChallengeCompletion(challenges[r.IntN(len(challenges))], r.IntN(5))
			}
			snap := l.Snapshot()
			if snap.XP() < prevXP {
				t.Fatalf("run %d step %d: XP decreased %d → %d", run, step, prevXP, snap.XP())
			}
			if snap.CompletedUnitCount() < prevUnits || snap.CompletedChallengeCount() < prevChalls {
				t.Fatalf("run %d step %d: completed set shrank", run, step)
			}
			prevXP, prevUnits, prevChalls = snap.XP(), snap.CompletedUnitCount(), snap.CompletedChallengeCount()
		}
	}
}

func TestSnapshot_IsImmutable(t *testing.T) {
	l := newTestLedger()
	_, _ = l.RecordUnitCompletion("u1", 100)
	snap := l.Snapshot()

	_, _ = l.RecordUnitCompletion("u2", 100)
	_, _ = l.RecordChallengeCompletion("a", 0)

	if snap.CompletedUnitCount() != 1 || snap.XP() != 50 || snap.CompletedChallengeCount() != 0 {
		t.Errorf("snapshot changed after later mutations: xp=%d units=%d", snap.XP(), snap.CompletedUnitCount())
	}
}

func TestRecordActivity_Streak(t *testing.T) {
	l := newTestLedger()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	steps := []struct {
		at   time.Time
		want int
	}{
		{day, 1},
		{day.Add(5 * time.Hour), 1},
		{day.AddDate(0, 0, 1), 2},
		{day.AddDate(0, 0, 2).Add(14 * time.Hour), 3},
		{day.AddDate(0, 0, 1), 3}, // backwards clock
		{day.AddDate(0, 0, 5), 1},
	}
	for i, s := range steps {
		l.RecordActivity(s.at)
		if got := l.Snapshot().StreakDays(); got != s.want {
			t.Errorf("step %d: streak = %d, want %d", i, got, s.want)
		}
	}
}

func TestRecordVote(t *testing.T) {
	l := newTestLedger()
	if err := l.RecordVote("p1", "yes"); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	err := l.RecordVote("p1", "no")
	if apperr.ReasonOf(err) != apperr.ReasonAlreadyVoted {
		t.Errorf("second vote: got %v, want AlreadyVoted", err)
	}
	snap := l.Snapshot()
	if snap.VoteCount() != 1 {
		t.Errorf("vote count = %d, want 1", snap.VoteCount())
	}
	if tally := snap.Tally("p1"); tally["yes"] != 1 || tally["no"] != 0 {
		t.Errorf("tally = %v", tally)
	}
}

func TestRecordArticleAndDeFi(t *testing.T) {
	l := newTestLedger()
	if !l.RecordArticleRead("n1") || l.RecordArticleRead("n1") {
		t.Error("article read should be recorded exactly once")
	}
	if !l.RecordDeFiAction("wallet-connect") || l.RecordDeFiAction("wallet-connect") {
		t.Error("defi action should be recorded exactly once")
	}
	snap := l.Snapshot()
	if snap.ArticlesReadCount() != 1 || snap.DeFiActionCount() != 1 {
		t.Errorf("counts = %d, %d; want 1, 1", snap.ArticlesReadCount(), snap.DeFiActionCount())
	}
}

func TestExportRestore(t *testing.T) {
	l := newTestLedger()
	_, _ = l.RecordUnitCompletion("u1", 90)
	_, _ = l.RecordChallengeCompletion("a", 0)
	_ = l.RecordVote("p1", "yes")
	l.RecordArticleRead("n1")
	l.RecordActivity(time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC))

	st := l.Snapshot().Export()
	st.CompletedUnits = append(st.CompletedUnits, "retired-unit")

	restored := RestoreLedger(l.rewards, st)
	snap := restored.Snapshot()
	if snap.XP() != l.XP() {
		t.Errorf("XP = %d, want %d", snap.XP(), l.XP())
	}
	if snap.CompletedUnitCount() != 1 || !snap.UnitCompleted("u1") {
		t.Errorf("completed units = %v, want [u1]", snap.CompletedUnits())
	}
	if !snap.ChallengeCompleted("a") || !snap.ArticleRead("n1") {
		t.Error("restored ledger lost challenge or article")
	}
	if v, ok := snap.Vote("p1"); !ok || v != "yes" {
		t.Errorf("vote = %q, %v", v, ok)
	}
	if snap.StreakDays() != 1 {
		t.Errorf("streak = %d, want 1", snap.StreakDays())
	}
}
