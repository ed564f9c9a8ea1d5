package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the content catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog YAML file (default: the active catalog)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Load().CatalogPath
		if len(args) == 1 {
			path = args[0]
		}

		cat, err := loadCatalog(path)
		if err != nil {
			return err
		}

		name := path
		if name == "" {
			name = "embedded catalog"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: ok (version %s)\n", name, cat.Version())
		for _, g := range cat.Groups() {
			fmt.Fprintf(out, "  %-20s %2d units, unlocks at %d\n", g.ID, len(g.Units), g.UnlockThreshold)
		}
		fmt.Fprintf(out, "  %d challenges, %d articles, %d proposals\n",
			len(cat.Challenges()), len(cat.Articles()), len(cat.Proposals()))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
}
