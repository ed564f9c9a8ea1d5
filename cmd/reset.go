package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/config"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase saved progress, the event log and the budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this erases all learner data; rerun with --yes to confirm")
		}

		ctx := cmd.Context()
		dbPath, err := resolveDBPath(cmd, config.Load())
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.SnapshotRepo().Clear(ctx); err != nil {
			return fmt.Errorf("clear snapshots: %w", err)
		}
		if err := st.EventRepo().Clear(ctx); err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		if err := st.KV().Delete(ctx, engine.BudgetKey); err != nil {
			return fmt.Errorf("clear budget: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Learner data erased:", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm erasing all learner data")
}
