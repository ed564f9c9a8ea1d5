package catalog

import (
	"strings"
	"testing"

	"github.com/finquest/finquest/internal/quiz"
)

func TestDefault_Loads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}
	if c.Version() != "v1.0.0" {
		t.Errorf("version = %q, want v1.0.0", c.Version())
	}
	if len(c.Groups()) != 4 {
		t.Errorf("got %d groups, want 4", len(c.Groups()))
	}
	if c.UnitCount() != 12 {
		t.Errorf("got %d units, want 12", c.UnitCount())
	}
	if len(c.Challenges()) < 3 {
		t.Errorf("got %d challenges, want at least 3", len(c.Challenges()))
	}
}

func TestUnitIndex(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}

	for _, g := range c.Groups() {
		for i, u := range g.Units {
			gid, ok := c.GroupOf(u.ID)
			if !ok || gid != g.ID {
				t.Errorf("GroupOf(%q) = %q, %v; want %q", u.ID, gid, ok, g.ID)
			}
			pos, ok := c.Position(u.ID)
			if !ok || pos != i {
				t.Errorf("Position(%q) = %d, %v; want %d", u.ID, pos, ok, i)
			}
		}
	}

	if _, ok := c.GroupOf("nonexistent"); ok {
		t.Error("GroupOf should fail for unknown unit")
	}
}

func TestPrevious(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}

	if _, ok := c.Previous("budgeting-101"); ok {
		t.Error("first unit of a group should have no previous unit")
	}
	prev, ok := c.Previous("needs-vs-wants")
	if !ok || prev.ID != "budgeting-101" {
		t.Errorf("Previous(needs-vs-wants) = %q, %v; want budgeting-101", prev.ID, ok)
	}
	if _, ok := c.Previous("bank-accounts"); ok {
		t.Error("previous unit must not cross group boundaries")
	}
}

func TestQuizRewardMirrorsUnit(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}
	u, ok := c.Unit("budgeting-101")
	if !ok {
		t.Fatal("budgeting-101 missing")
	}
	if u.Quiz.Reward.XP != u.XPReward {
		t.Errorf("quiz reward XP = %d, want %d", u.Quiz.Reward.XP, u.XPReward)
	}
	if u.Quiz.Reward.Badge != "education-baby" {
		t.Errorf("quiz reward badge = %q, want education-baby", u.Quiz.Reward.Badge)
	}
}

func TestRewards(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}
	if xp, ok := c.UnitReward("budgeting-101"); !ok || xp != 50 {
		t.Errorf("UnitReward = %d, %v; want 50, true", xp, ok)
	}
	if xp, ok := c.ChallengeReward("no-spend-day"); !ok || xp != 30 {
		t.Errorf("ChallengeReward = %d, %v; want 30, true", xp, ok)
	}
	if _, ok := c.ChallengeReward("nope"); ok {
		t.Error("ChallengeReward should fail for unknown challenge")
	}
}

func TestCheckBadgeRefs(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}
	if err := c.CheckBadgeRefs(func(string) bool { return true }); err != nil {
		t.Errorf("all-known should pass: %v", err)
	}
	err = c.CheckBadgeRefs(func(id string) bool { return id != "education-teenage" })
	if err == nil || !strings.Contains(err.Error(), "education-teenage") {
		t.Errorf("expected unknown badge error, got %v", err)
	}
}

func validUnit(id string) Unit {
	return Unit{
		ID:       id,
		XPReward: 10,
		Quiz: quiz.Quiz{Questions: []quiz.Question{
			{Prompt: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
		}},
	}
}

func TestValidate_DetectsProblems(t *testing.T) {
	tests := []struct {
		name   string
		groups []Group
		want   string
	}{
		{
			name:   "no groups",
			groups: nil,
			want:   "no groups",
		},
		{
			name:   "first group threshold",
			groups: []Group{{ID: "g", UnlockThreshold: 2, Units: []Unit{validUnit("u")}}},
			want:   "threshold 0",
		},
		{
			name: "duplicate unit",
			groups: []Group{
				{ID: "g1", Units: []Unit{validUnit("u")}},
				{ID: "g2", UnlockThreshold: 1, Units: []Unit{validUnit("u")}},
			},
			want: "duplicate unit",
		},
		{
			name:   "empty group",
			groups: []Group{{ID: "g"}},
			want:   "no units",
		},
		{
			name: "correct index out of range",
			groups: []Group{{ID: "g", Units: []Unit{{
				ID: "u",
				Quiz: quiz.Quiz{Questions: []quiz.Question{
					{Prompt: "q", Options: []string{"a", "b"}, CorrectIndex: 2},
				}},
			}}}},
			want: "out of range",
		},
		{
			name: "negative reward",
			groups: []Group{{ID: "g", Units: []Unit{func() Unit {
				u := validUnit("u")
				u.XPReward = -1
				return u
			}()}}},
			want: "xp reward",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("v1.0.0", tt.groups, nil, nil, nil)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_Proposals(t *testing.T) {
	groups := []Group{{ID: "g", Units: []Unit{validUnit("u")}}}
	_, err := New("v1.0.0", groups, nil, nil, []Proposal{{ID: "p", Choices: []string{"only"}}})
	if err == nil || !strings.Contains(err.Error(), "at least 2 choices") {
		t.Errorf("expected choices error, got %v", err)
	}
}
