package assessment

import (
	"slices"
	"strings"
)

// Kind identifies a question variant. The four kinds form a closed set;
// scoring dispatches on the concrete type, not on string tags.
type Kind string

const (
	KindMultipleChoice  Kind = "multiple-choice"
	KindCodeCompletion  Kind = "code-completion"
	KindDragDrop        Kind = "drag-drop"
	KindCodingChallenge Kind = "coding-challenge"
)

// Response is one submitted answer. Which field is consulted depends on
// the question kind; the wrong shape for the kind is a validation error.
type Response struct {
	// Answer carries the selected choice or completed code.
	Answer string `json:"answer,omitempty"`
	// Order carries the arranged item order for drag-drop.
	Order []string `json:"order,omitempty"`
	// Outputs carries per-test-case outputs for coding challenges.
	Outputs []string `json:"outputs,omitempty"`
}

// Question is one assessment item with its own scoring rule.
type Question interface {
	Kind() Kind
	Prompt() string

	// Score grades a response as a fraction in [0, 1]. A malformed
	// response for this kind returns *ErrValidation.
	Score(resp Response) (float64, error)
}

// MultipleChoice is scored by exact match against the correct choice.
type MultipleChoice struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Correct string   `json:"correct"`
}

func (q *MultipleChoice) Kind() Kind     { return KindMultipleChoice }
func (q *MultipleChoice) Prompt() string { return q.Text }

func (q *MultipleChoice) Score(resp Response) (float64, error) {
	if resp.Answer == "" {
		return 0, &ErrValidation{Reason: "multiple-choice response requires an answer"}
	}
	if resp.Answer == q.Correct {
		return 1, nil
	}
	return 0, nil
}

// CodeCompletion is scored by exact match after trimming whitespace.
type CodeCompletion struct {
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
	Correct string `json:"correct"`
}

func (q *CodeCompletion) Kind() Kind     { return KindCodeCompletion }
func (q *CodeCompletion) Prompt() string { return q.Text }

func (q *CodeCompletion) Score(resp Response) (float64, error) {
	if resp.Answer == "" {
		return 0, &ErrValidation{Reason: "code-completion response requires an answer"}
	}
	if strings.TrimSpace(resp.Answer) == strings.TrimSpace(q.Correct) {
		return 1, nil
	}
	return 0, nil
}

// DragDrop is scored by exact match of the arranged order.
type DragDrop struct {
	Text  string   `json:"text"`
	Items []string `json:"items"`
	// Order is the correct arrangement of Items.
	Order []string `json:"order"`
}

func (q *DragDrop) Kind() Kind     { return KindDragDrop }
func (q *DragDrop) Prompt() string { return q.Text }

func (q *DragDrop) Score(resp Response) (float64, error) {
	if len(resp.Order) == 0 {
		return 0, &ErrValidation{Reason: "drag-drop response requires an item order"}
	}
	if slices.Equal(resp.Order, q.Order) {
		return 1, nil
	}
	return 0, nil
}

// TestCase is one input/expected-output pair for a coding challenge.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// CodingChallenge is scored by the fraction of test cases whose output
// matches.
type CodingChallenge struct {
	Text      string     `json:"text"`
	Starter   string     `json:"starter,omitempty"`
	TestCases []TestCase `json:"test_cases"`
}

func (q *CodingChallenge) Kind() Kind     { return KindCodingChallenge }
func (q *CodingChallenge) Prompt() string { return q.Text }

func (q *CodingChallenge) Score(resp Response) (float64, error) {
	if len(resp.Outputs) != len(q.TestCases) {
		return 0, &ErrValidation{Reason: "coding-challenge response requires one output per test case"}
	}
	passed := 0
	for i, tc := range q.TestCases {
		if strings.TrimSpace(resp.Outputs[i]) == strings.TrimSpace(tc.Expected) {
			passed++
		}
	}
	if len(q.TestCases) == 0 {
		return 0, nil
	}
	return float64(passed) / float64(len(q.TestCases)), nil
}
