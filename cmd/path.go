package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathLimit int

var pathCmd = &cobra.Command{
	Use:   "path <user>",
	Short: "Show a user's recommended learning path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		skills, err := a.orch.GetLearningPath(cmd.Context(), args[0], pathLimit)
		if err != nil {
			return err
		}

		if len(skills) == 0 {
			fmt.Println("No skills available. Complete prerequisites first.")
			return nil
		}
		for i, s := range skills {
			fmt.Printf("%d. %s (%s)\n", i+1, s.Title, s.ID)
		}
		return nil
	},
}

func init() {
	pathCmd.Flags().IntVar(&pathLimit, "limit", 5, "Maximum number of skills to recommend")
}
