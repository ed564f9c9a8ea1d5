package catalog

import (
	"fmt"
	"strings"
)

// validate performs all structural checks on the catalog content.
// Returns a combined error describing all problems found, or nil if valid.
func validate(groups []Group, challenges []Challenge, articles []Article, proposals []Proposal) error {
	var errs []string

	if len(groups) == 0 {
		errs = append(errs, "catalog has no groups")
	} else if groups[0].UnlockThreshold != 0 {
		errs = append(errs, fmt.Sprintf("first group %q must have unlock threshold 0, got %d", groups[0].ID, groups[0].UnlockThreshold))
	}

	groupIDs := make(map[string]bool, len(groups))
	unitIDs := make(map[string]bool)
	for _, g := range groups {
		if g.ID == "" {
			errs = append(errs, "group with empty ID")
		}
		if groupIDs[g.ID] {
			errs = append(errs, fmt.Sprintf("duplicate group ID: %q", g.ID))
		}
		groupIDs[g.ID] = true

		if g.UnlockThreshold < 0 {
			errs = append(errs, fmt.Sprintf("group %q: unlock threshold must be >= 0, got %d", g.ID, g.UnlockThreshold))
		}
		if len(g.Units) == 0 {
			errs = append(errs, fmt.Sprintf("group %q has no units", g.ID))
		}

		for _, u := range g.Units {
			if u.ID == "" {
				errs = append(errs, fmt.Sprintf("group %q: unit with empty ID", g.ID))
			}
			if unitIDs[u.ID] {
				errs = append(errs, fmt.Sprintf("duplicate unit ID: %q", u.ID))
			}
			unitIDs[u.ID] = true
			errs = append(errs, validateUnit(u)...)
		}
	}

	challengeIDs := make(map[string]bool, len(challenges))
	for _, ch := range challenges {
		if challengeIDs[ch.ID] {
			errs = append(errs, fmt.Sprintf("duplicate challenge ID: %q", ch.ID))
		}
		challengeIDs[ch.ID] = true
		if ch.XPReward < 0 {
			errs = append(errs, fmt.Sprintf("challenge %q: xp reward must be >= 0, got %d", ch.ID, ch.XPReward))
		}
	}

	articleIDs := make(map[string]bool, len(articles))
	for _, a := range articles {
		if articleIDs[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate article ID: %q", a.ID))
		}
		articleIDs[a.ID] = true
	}

	proposalIDs := make(map[string]bool, len(proposals))
	for _, p := range proposals {
		if proposalIDs[p.ID] {
			errs = append(errs, fmt.Sprintf("duplicate proposal ID: %q", p.ID))
		}
		proposalIDs[p.ID] = true
		if len(p.Choices) < 2 {
			errs = append(errs, fmt.Sprintf("proposal %q needs at least 2 choices, got %d", p.ID, len(p.Choices)))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateUnit(u Unit) []string {
	var errs []string
	if u.XPReward < 0 {
		errs = append(errs, fmt.Sprintf("unit %q: xp reward must be >= 0, got %d", u.ID, u.XPReward))
	}
	if len(u.Quiz.Questions) == 0 {
		errs = append(errs, fmt.Sprintf("unit %q: quiz has no questions", u.ID))
	}
	for i, q := range u.Quiz.Questions {
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("unit %q question %d: needs at least 2 options, got %d", u.ID, i, len(q.Options)))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			errs = append(errs, fmt.Sprintf("unit %q question %d: correct index %d out of range", u.ID, i, q.CorrectIndex))
		}
	}
	return errs
}
