package cmd

import (
	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "icfes",
	Short: "Torre de Babel: ICFES practice in the terminal",
	Long: `Torre de Babel: terminal client for ICFES exam practice.

Without a subcommand it opens the interactive app: adaptive quiz sessions
per area and difficulty, the vocational role test and quiz history.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ICFES_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (config file or ICFES_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
