package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var showInternals bool

var statsCmd = &cobra.Command{
	Use:   "stats <user>",
	Short: "Show learning analytics for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		an, err := a.orch.GetSkillAnalytics(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("User: %s\n", an.UserID)
		fmt.Printf("Skills: %d total, %d completed (%.0f%%), %d available\n",
			an.TotalSkills, an.CompletedSkills, an.CompletedPercent, an.AvailableSkills)
		fmt.Printf("Attempts: %d across %d skills\n", an.TotalAttempts, an.AttemptedSkills)
		fmt.Printf("Average mastery: %.1f%%\n", an.AverageMastery*100)
		if an.StrongestSkill != "" {
			fmt.Printf("Strongest: %s  Weakest: %s\n", an.StrongestSkill, an.WeakestSkill)
		}
		fmt.Printf("Due for review: %d\n", an.DueForReview)
		fmt.Printf("Time spent: %ds\n", an.TotalTimeSpent)

		if !showInternals {
			return nil
		}

		cs := a.orch.CacheStats()
		fmt.Printf("\nCache: %d entries, %d hits, %d misses (%.0f%% hit rate)\n",
			cs.Size, cs.Hits, cs.Misses, cs.HitRate*100)

		rs := a.orch.RetryStats()
		if len(rs) == 0 {
			return nil
		}
		labels := make([]string, 0, len(rs))
		for label := range rs {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		fmt.Println("Retries:")
		for _, label := range labels {
			s := rs[label]
			fmt.Printf("  %-20s attempts %d, retries %d, failures %d\n",
				label, s.Attempts, s.Retries, s.Failures)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&showInternals, "internals", false, "Include cache and retry counters")
}
