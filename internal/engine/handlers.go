package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/finquest/finquest/internal/apperr"
	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/budget"
	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/escrow"
	"github.com/finquest/finquest/internal/notify"
	"github.com/finquest/finquest/internal/progress"
	"github.com/finquest/finquest/internal/quiz"
	"github.com/finquest/finquest/internal/store"
	"github.com/finquest/finquest/internal/unlock"
)

// SelectUnit opens a unit for study. Locked units are rejected.
func (e *Engine) SelectUnit(unitID string) (catalog.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, err := e.selectableLocked(unitID)
	e.record("unit_selected", unitID, err, nil)
	if err != nil {
		return catalog.Unit{}, err
	}
	e.selected = unitID
	e.log.Debug("unit selected", "unit", unitID)
	return u, nil
}

func (e *Engine) selectableLocked(unitID string) (catalog.Unit, error) {
	u, ok := e.cat.Unit(unitID)
	if !ok {
		return catalog.Unit{}, apperr.Validation(apperr.ReasonUnknownUnit, "unknown unit %q", unitID)
	}
	if !unlock.Selectable(e.cat, unitID, e.ledger.Snapshot()) {
		return catalog.Unit{}, apperr.Invalid(apperr.ReasonUnitLocked, "unit %q is locked", unitID)
	}
	return u, nil
}

// QuizOutcome is the result of a quiz submission.
type QuizOutcome struct {
	quiz.Outcome
	// NewlyUnlocked lists groups this submission opened.
	NewlyUnlocked []string
	// NewlyCollectible lists badges whose threshold this submission met.
	NewlyCollectible []string
}

// SubmitQuiz grades answers for a unit's quiz and records the attempt.
func (e *Engine) SubmitQuiz(unitID string, answers []int) (QuizOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, err := e.selectableLocked(unitID)
	if err != nil {
		e.record("quiz_submitted", unitID, err, nil)
		return QuizOutcome{}, err
	}

	before := e.ledger.Snapshot()
	beforeBadges := e.book.Snapshot(before)

	out, err := e.grader.Submit(unitID, u.Quiz, answers)
	if err != nil {
		e.record("quiz_submitted", unitID, err, nil)
		return QuizOutcome{}, err
	}
	e.ledger.RecordActivity(e.now())

	after := e.ledger.Snapshot()
	res := QuizOutcome{
		Outcome:          out,
		NewlyUnlocked:    newlyUnlocked(e.cat, before, after),
		NewlyCollectible: badges.NewlyCollectible(beforeBadges, e.book.Snapshot(after)),
	}

	e.record("quiz_submitted", unitID, nil, map[string]any{
		"correct": out.Result.Correct,
		"total":   out.Result.Total,
		"passed":  out.Result.Passed,
		"xp":      out.Unit.XPGranted,
	})
	e.log.Info("quiz submitted",
		"unit", unitID,
		"percent", out.Result.Percent,
		"passed", out.Result.Passed,
		"xp", out.Unit.XPGranted,
		"unlocked", res.NewlyUnlocked,
	)
	return res, nil
}

func newlyUnlocked(c *catalog.Catalog, before, after progress.Snapshot) []string {
	b := unlock.Evaluate(c, before)
	a := unlock.Evaluate(c, after)
	var out []string
	for _, g := range c.Groups() {
		if a.Groups[g.ID] && !b.Groups[g.ID] {
			out = append(out, g.ID)
		}
	}
	return out
}

// ChallengeOutcome is the result of one challenge completion.
type ChallengeOutcome struct {
	ChallengeID      string
	Recorded         bool
	XPGranted        int
	Total            int
	EscrowReady      bool
	NewlyCollectible []string
}

// CompleteChallenge records a challenge. Repeats are no-ops.
func (e *Engine) CompleteChallenge(challengeID string) (ChallengeOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.book.Snapshot(e.ledger.Snapshot())
	c, err := e.tracker.Complete(challengeID, e.now())
	e.record("challenge_completed", challengeID, err, nil)
	if err != nil {
		return ChallengeOutcome{}, err
	}

	out := ChallengeOutcome{
		ChallengeID: challengeID,
		Recorded:    c.Recorded,
		XPGranted:   c.XPGranted,
		Total:       c.Current,
	}
	if !c.Recorded {
		return out, nil
	}
	e.ledger.RecordActivity(e.now())
	out.NewlyCollectible = badges.NewlyCollectible(before, e.book.Snapshot(e.ledger.Snapshot()))

	if c.Transition != nil {
		out.EscrowReady = true
		e.notifier.Publish(notify.Celebration{
			Kind:    notify.KindEscrowReady,
			Key:     notify.EscrowReadyKey(c.Transition.EscrowID),
			Title:   "Escrow ready",
			Message: fmt.Sprintf("Quota met. %s is ready to release.", budget.FormatCents(c.Transition.Amount)),
			At:      e.now(),
		})
		e.log.Info("escrow ready", "escrow", c.Transition.EscrowID, "amount", c.Transition.Amount)
	}
	e.log.Info("challenge completed", "challenge", challengeID, "total", c.Current, "xp", c.XPGranted)
	return out, nil
}

// LockEscrow locks amount (in cents) against a quota of required challenges
// counted from now. Only one escrow may be open at a time; a new one may be
// locked after the previous one is released.
func (e *Engine) LockEscrow(amount int64, required int) (EscrowSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.escrow != nil && e.escrow.Status != escrow.StatusReleased {
		err := apperr.Invalid(apperr.ReasonEscrowActive, "escrow %s is still %s", e.escrow.ID, e.escrow.Status)
		e.record("escrow_locked", e.escrow.ID, err, nil)
		return EscrowSnapshot{}, err
	}

	esc, err := escrow.Lock(amount, required, e.ledger.ChallengeCount(), e.now())
	if err != nil {
		e.record("escrow_locked", "", err, nil)
		return EscrowSnapshot{}, err
	}

	if e.escrow != nil {
		e.history = append(e.history, e.escrow.Export())
	}
	e.escrow = esc
	e.tracker.Attach(esc)

	e.record("escrow_locked", esc.ID, nil, map[string]any{"amount": amount, "required": required})
	e.log.Info("escrow locked", "escrow", esc.ID, "amount", amount, "required", required)
	return e.escrowLocked(), nil
}

// ReadArticle marks a news article as read.
func (e *Engine) ReadArticle(articleID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.cat.Article(articleID); !ok {
		err := apperr.Validation(apperr.ReasonUnknownArticle, "unknown article %q", articleID)
		e.record("article_read", articleID, err, nil)
		return false, err
	}
	first := e.ledger.RecordArticleRead(articleID)
	if first {
		e.ledger.RecordActivity(e.now())
	}
	e.record("article_read", articleID, nil, nil)
	return first, nil
}

// CastVote records the learner's vote on a community proposal.
func (e *Engine) CastVote(proposalID, choice string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.castVoteLocked(proposalID, choice)
	e.record("vote_cast", proposalID, err, map[string]string{"choice": choice})
	if err != nil {
		return err
	}
	e.ledger.RecordActivity(e.now())
	e.log.Info("vote cast", "proposal", proposalID, "choice", choice)
	return nil
}

func (e *Engine) castVoteLocked(proposalID, choice string) error {
	p, ok := e.cat.Proposal(proposalID)
	if !ok {
		return apperr.Validation(apperr.ReasonUnknownProposal, "unknown proposal %q", proposalID)
	}
	if !slices.Contains(p.Choices, choice) {
		return apperr.Validation(apperr.ReasonUnknownProposal, "%q is not a choice on %q", choice, proposalID)
	}
	return e.ledger.RecordVote(proposalID, choice)
}

// ImportStatement seeds the budget from bank statement rows, overwriting any
// previous import. Unparseable rows are skipped. The budget is persisted
// when the engine has a KV store.
func (e *Engine) ImportStatement(ctx context.Context, rows []budget.Row) (budget.Budget, error) {
	b := budget.Import(rows, e.now())
	if e.kv != nil {
		if err := e.kv.Put(ctx, BudgetKey, b); err != nil {
			return budget.Budget{}, fmt.Errorf("save budget: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.budget = &b
	e.record("statement_imported", "", nil, map[string]int{
		"inflows":  len(b.Inflows),
		"outflows": len(b.Outflows),
		"skipped":  len(b.Skipped),
	})
	e.log.Info("statement imported",
		"inflows", len(b.Inflows),
		"outflows", len(b.Outflows),
		"skipped", len(b.Skipped),
		"balance", b.Balance,
	)
	return b, nil
}

// LoadBudget reads the persisted budget once, typically at session start.
func (e *Engine) LoadBudget(ctx context.Context) (budget.Budget, bool, error) {
	if e.kv == nil {
		return budget.Budget{}, false, nil
	}
	var b budget.Budget
	if err := e.kv.Get(ctx, BudgetKey, &b); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return budget.Budget{}, false, nil
		}
		return budget.Budget{}, false, err
	}

	e.mu.Lock()
	e.budget = &b
	e.mu.Unlock()
	return b, true, nil
}

func reasonOrKind(err error) string {
	if r := apperr.ReasonOf(err); r != "" {
		return string(r)
	}
	if k := apperr.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
