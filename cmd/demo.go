package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/budget"
	"github.com/finquest/finquest/internal/config"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/task"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted escrow and quiz scenario without touching saved data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		cat, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		if len(cat.Challenges()) < cfg.DefaultQuota {
			return fmt.Errorf("catalog has %d challenges, demo needs %d", len(cat.Challenges()), cfg.DefaultQuota)
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		eng := engine.New(engine.Deps{
			Catalog: cat,
			Remote:  task.NewSimulator(task.SimConfig{}),
		})

		step := func(label string, err error) {
			if err != nil {
				fmt.Fprintf(out, "%-34s rejected: %v\n", label, err)
				return
			}
			fmt.Fprintf(out, "%-34s ok\n", label)
		}

		_, err = eng.LockEscrow(5000, cfg.DefaultQuota)
		step(fmt.Sprintf("lock %s for %d challenges", budget.FormatCents(5000), cfg.DefaultQuota), err)
		printEscrow(out, eng.Escrow())

		challenges := cat.Challenges()
		for i := 0; i < cfg.DefaultQuota-1; i++ {
			_, err := eng.CompleteChallenge(challenges[i].ID)
			step("complete "+challenges[i].ID, err)
		}
		_, err = eng.CompleteChallenge(challenges[0].ID)
		step("complete "+challenges[0].ID+" again", err)
		printEscrow(out, eng.Escrow())

		_, err = eng.ReleaseEscrow(ctx)
		step("release early", err)

		_, err = eng.CompleteChallenge(challenges[cfg.DefaultQuota-1].ID)
		step("complete "+challenges[cfg.DefaultQuota-1].ID, err)
		printEscrow(out, eng.Escrow())

		_, err = eng.ReleaseEscrow(ctx)
		step("release", err)
		_, err = eng.ReleaseEscrow(ctx)
		step("release again", err)
		printEscrow(out, eng.Escrow())

		first := cat.Groups()[0].Units[0]
		answers := make([]int, len(first.Quiz.Questions))
		for i, q := range first.Quiz.Questions {
			answers[i] = q.CorrectIndex
		}
		res, err := eng.SubmitQuiz(first.ID, answers)
		step("ace quiz "+first.ID, err)
		if err == nil {
			fmt.Fprintf(out, "  score %.0f%%, +%d XP\n", res.Result.Percent, res.Unit.XPGranted)
		}

		for {
			c, ok := eng.NextCelebration()
			if !ok {
				break
			}
			fmt.Fprintf(out, "celebrate: %s - %s\n", c.Title, c.Message)
		}

		p := eng.Progress()
		fmt.Fprintf(out, "\nXP %d, %d challenges, %d units\n", p.XP, p.CompletedChallenges, p.CompletedUnits)
		return nil
	},
}

func printEscrow(w io.Writer, s engine.EscrowSnapshot) {
	if !s.Active {
		fmt.Fprintln(w, "  escrow: none")
		return
	}
	fmt.Fprintf(w, "  escrow %s: %s, %s, %d/%d challenges\n",
		s.ID[:8], s.Status, budget.FormatCents(s.LockedAmount), s.CompletedCount, s.RequiredCount)
}
