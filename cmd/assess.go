package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrack/internal/assessment"
)

var assessCmd = &cobra.Command{
	Use:   "assess <user> <skill>",
	Short: "Run an interactive assessment for a skill",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		userID, skillID := args[0], args[1]
		sess, err := a.orch.StartAssessment(cmd.Context(), userID, skillID)
		if err != nil {
			return err
		}

		fmt.Printf("Assessment: %s (difficulty %d, %d questions, %ds limit)\n\n",
			skillID, sess.Difficulty, len(sess.Questions), sess.TimeLimitSeconds)

		reader := bufio.NewReader(os.Stdin)
		responses := make([]assessment.Response, len(sess.Questions))
		for i, q := range sess.Questions {
			fmt.Printf("Q%d. %s\n", i+1, q.Prompt())
			resp, err := readResponse(reader, q)
			if err != nil {
				return err
			}
			responses[i] = resp
			fmt.Println()
		}

		result, err := a.orch.SubmitAssessment(cmd.Context(), userID, sess.ID, responses)
		if err != nil {
			return err
		}

		fmt.Printf("Score: %.0f%% (performance %d/5)\n", result.FinalScore*100, result.Performance)
		fmt.Printf("Mastery: %.1f%%", result.MasteryLevel*100)
		if result.Mastered {
			fmt.Print("  [mastered]")
		}
		fmt.Println()
		fmt.Printf("Next review: %s\n", result.NextReviewAt.Format("2006-01-02"))
		fmt.Println(result.Feedback)
		return nil
	},
}

// readResponse prompts for and reads one answer, shaped for the
// question kind.
func readResponse(reader *bufio.Reader, q assessment.Question) (assessment.Response, error) {
	switch q := q.(type) {
	case *assessment.MultipleChoice:
		for i, c := range q.Choices {
			fmt.Printf("  %d) %s\n", i+1, c)
		}
		line, err := readLine(reader, "Answer: ")
		if err != nil {
			return assessment.Response{}, err
		}
		// Accept either the choice text or its 1-based index.
		var idx int
		if _, scanErr := fmt.Sscanf(line, "%d", &idx); scanErr == nil && idx >= 1 && idx <= len(q.Choices) {
			line = q.Choices[idx-1]
		}
		return assessment.Response{Answer: line}, nil

	case *assessment.CodeCompletion:
		fmt.Printf("  %s\n", q.Snippet)
		line, err := readLine(reader, "Fill in: ")
		if err != nil {
			return assessment.Response{}, err
		}
		return assessment.Response{Answer: line}, nil

	case *assessment.DragDrop:
		fmt.Printf("  Items: %s\n", strings.Join(q.Items, ", "))
		line, err := readLine(reader, "Order (comma-separated): ")
		if err != nil {
			return assessment.Response{}, err
		}
		parts := strings.Split(line, ",")
		order := make([]string, 0, len(parts))
		for _, p := range parts {
			order = append(order, strings.TrimSpace(p))
		}
		return assessment.Response{Order: order}, nil

	case *assessment.CodingChallenge:
		if q.Starter != "" {
			fmt.Printf("  Starter:\n%s\n", q.Starter)
		}
		outputs := make([]string, len(q.TestCases))
		for i, tc := range q.TestCases {
			fmt.Printf("  Test %d input: %s\n", i+1, tc.Input)
			line, err := readLine(reader, "  Output: ")
			if err != nil {
				return assessment.Response{}, err
			}
			outputs[i] = line
		}
		return assessment.Response{Outputs: outputs}, nil

	default:
		return assessment.Response{}, fmt.Errorf("unsupported question kind %q", q.Kind())
	}
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
