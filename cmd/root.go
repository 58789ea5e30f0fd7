package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhitui/zhitui/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "zhitui",
	Short: "Adaptive math drills in the terminal",
	Long: "Zhitui tracks per-tag mastery with a Bayesian learner model and " +
		"always serves the problem that helps most. Running it with no " +
		"subcommand opens the full-screen app; `zhitui drill` is the " +
		"plain line-mode loop for dumb terminals and pipes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env in the working directory may hold ZHITUI_* variables.
	cobra.OnInitialize(func() { _ = godotenv.Load() })

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ZHITUI_DB env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "default", "Learner profile name")
	rootCmd.PersistentFlags().String("banks", defaultBanksDir, "Directory of problem bank JSON files")

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ZHITUI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUser returns the learner profile the command operates on.
func resolveUser(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		return "default"
	}
	return u
}
