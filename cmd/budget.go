package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/budget"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show the imported budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		b, ok := s.engine.Budget()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No budget yet. Run `finquest import <statement.csv>` first.")
			return nil
		}
		printBudget(cmd.OutOrStdout(), b)
		return nil
	},
}

func printBudget(w io.Writer, b budget.Budget) {
	section := func(title string, entries []budget.Entry) {
		fmt.Fprintf(w, "%s\n", title)
		if len(entries) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, e := range entries {
			fmt.Fprintf(w, "  %-36s %12s\n", e.Description, budget.FormatCents(e.AmountCents))
		}
		fmt.Fprintln(w)
	}

	section("Inflows", b.Inflows)
	section("Outflows", b.Outflows)
	fmt.Fprintf(w, "  %-36s %12s\n", "Total in", budget.FormatCents(b.TotalIn()))
	fmt.Fprintf(w, "  %-36s %12s\n", "Total out", budget.FormatCents(b.TotalOut()))
	fmt.Fprintf(w, "  %-36s %12s\n", "Balance", budget.FormatCents(b.Balance))

	if len(b.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d rows:\n", len(b.Skipped))
		for _, sk := range b.Skipped {
			fmt.Fprintf(w, "  line %d: %s\n", sk.Line, sk.Reason)
		}
	}
	if !b.ImportedAt.IsZero() {
		fmt.Fprintf(w, "\nImported %s\n", b.ImportedAt.Format("Jan 02, 2006 15:04"))
	}
}
