package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <user>",
	Short: "Show a user's skill progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.orch.GetProgress(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("User: %s\n", p.UserID)
		if len(p.CompletedSkills) > 0 {
			fmt.Printf("Completed: %s\n", strings.Join(p.CompletedSkills, ", "))
		} else {
			fmt.Println("Completed: none")
		}
		fmt.Printf("Time spent: %ds\n\n", p.TotalTimeSpent)

		if len(p.Skills) == 0 {
			fmt.Println("No skills attempted yet.")
			return nil
		}

		ids := make([]string, 0, len(p.Skills))
		for id := range p.Skills {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			sp := p.Skills[id]
			fmt.Printf("%-18s mastery %5.1f%%  attempts %d", id, sp.MasteryLevel*100, sp.Attempts)
			if !sp.NextReviewAt.IsZero() {
				fmt.Printf("  next review %s", sp.NextReviewAt.Format("2006-01-02"))
			}
			fmt.Println()
		}
		return nil
	},
}
