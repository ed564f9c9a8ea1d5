package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		p := s.engine.Progress()

		fmt.Fprintf(out, "XP %d   streak %d days\n", p.XP, p.StreakDays)
		fmt.Fprintf(out, "Units %d   challenges %d   articles %d   votes %d   DeFi actions %d\n",
			p.CompletedUnits, p.CompletedChallenges, p.ArticlesRead, p.Votes, p.DeFiActions)
		if p.NextGroup != "" {
			fmt.Fprintf(out, "Next unlock: %s in %d units\n", p.NextGroup, p.UnitsToUnlock)
		}

		b := s.engine.Badges()
		fmt.Fprintf(out, "Badges: %d collected, %d ready to collect\n",
			b.Count(badges.StatusEarned), b.Count(badges.StatusInProgress))

		counts, err := s.store.EventRepo().Counts(ctx)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		recent, err := s.store.EventRepo().Query(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		fmt.Fprintln(out, "\nEvents")
		for _, k := range slices.Sorted(maps.Keys(counts)) {
			fmt.Fprintf(out, "  %-22s %d\n", k, counts[k])
		}
		if len(recent) > 0 {
			fmt.Fprintln(out, "\nRecent")
		}
		for _, r := range recent {
			fmt.Fprintf(out, "  %s  %-20s %-24s %s\n",
				r.Timestamp.Format("Jan 02 15:04"), r.Kind, r.Subject, r.Outcome)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent events to show")
}
