package cmd

import (
	"github.com/abhisek/skilltrack/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skilltrack",
	Short: "Skill mastery tracker with spaced-repetition scheduling",
	Long: "Skilltrack tracks mastery of discrete skills, gates them behind a " +
		"prerequisite graph, and schedules reviews with a modified SM-2 algorithm.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLTRACK_DB env var)")
	rootCmd.PersistentFlags().String("skills", "", "Path to skill definitions JSON (defaults to the built-in set)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SKILLTRACK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
