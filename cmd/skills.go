package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrack/internal/skillgraph"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List all skills in the prerequisite graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := loadGraph(cmd)
		if err != nil {
			return err
		}

		for _, s := range graph.TopologicalOrder() {
			prereqs := "none"
			if len(s.Prerequisites) > 0 {
				prereqs = strings.Join(s.Prerequisites, ", ")
			}
			fmt.Printf("%-18s %s\n", s.ID, s.Title)
			fmt.Printf("  prerequisites: %s\n", prereqs)
			fmt.Printf("  threshold: %.0f%%  bands: %d\n", s.MasteryThreshold*100, s.DifficultyBands)
		}
		return nil
	},
}

var skillsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a skill definitions file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := skillgraph.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("OK: %d skills, %d roots\n", len(graph.AllSkills()), len(graph.RootSkills()))
		return nil
	},
}

func init() {
	skillsCmd.AddCommand(skillsValidateCmd)
}
