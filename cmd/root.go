package cmd

import (
	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/config"
	"github.com/finquest/finquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "finquest",
	Short: "Learn personal finance by unlocking modules, badges and rewards",
	Long: "finquest is a terminal game that teaches budgeting, banking, investing\n" +
		"and DeFi basics. Finish units to unlock module groups, complete challenges\n" +
		"to release escrowed rewards, and collect badges along the way.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FINQUEST_DB)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path from the --db flag, then the
// config, then the XDG default.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return store.DefaultDBPath(p)
	}
	return store.DefaultDBPath(cfg.DBPath)
}
