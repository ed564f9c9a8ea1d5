package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/budget"
)

var importCmd = &cobra.Command{
	Use:   "import <statement.csv>",
	Short: "Import a bank statement CSV as your starting budget",
	Long: "Reads description,amount rows (an optional header is skipped).\n" +
		"Positive amounts are inflows, negative amounts outflows. Re-importing\n" +
		"replaces the previous budget.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open statement: %w", err)
		}
		defer f.Close()

		rows, err := budget.ReadCSV(f)
		if err != nil {
			return err
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := s.engine.ImportStatement(cmd.Context(), rows)
		if err != nil {
			return err
		}
		if err := s.save(cmd.Context()); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d rows from %s\n\n", len(rows), args[0])
		printBudget(out, b)
		return nil
	},
}
