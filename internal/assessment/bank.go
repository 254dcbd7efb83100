package assessment

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// QuestionBank supplies assessment questions for a skill at a difficulty
// band. External collaborator: the orchestrator only depends on this
// interface.
type QuestionBank interface {
	// Generate returns the question set and time limit in seconds for
	// the given skill and difficulty.
	Generate(skillID string, difficulty int) ([]Question, int, error)
}

//go:embed questions.json
var defaultBankData []byte

// bankEntry is one stocked (skill, difficulty) section.
type bankEntry struct {
	Skill            string        `json:"skill"`
	Difficulty       int           `json:"difficulty"`
	TimeLimitSeconds int           `json:"time_limit_seconds"`
	Questions        []rawQuestion `json:"questions"`
}

// rawQuestion is the on-disk tagged form of a question; decode resolves
// it to the closed variant set.
type rawQuestion struct {
	Kind      Kind       `json:"kind"`
	Text      string     `json:"text"`
	Choices   []string   `json:"choices,omitempty"`
	Correct   string     `json:"correct,omitempty"`
	Snippet   string     `json:"snippet,omitempty"`
	Items     []string   `json:"items,omitempty"`
	Order     []string   `json:"order,omitempty"`
	Starter   string     `json:"starter,omitempty"`
	TestCases []TestCase `json:"test_cases,omitempty"`
}

func (rq rawQuestion) resolve() (Question, error) {
	switch rq.Kind {
	case KindMultipleChoice:
		if len(rq.Choices) == 0 || rq.Correct == "" {
			return nil, fmt.Errorf("multiple-choice question %q missing choices or correct answer", rq.Text)
		}
		return &MultipleChoice{Text: rq.Text, Choices: rq.Choices, Correct: rq.Correct}, nil
	case KindCodeCompletion:
		if rq.Correct == "" {
			return nil, fmt.Errorf("code-completion question %q missing correct answer", rq.Text)
		}
		return &CodeCompletion{Text: rq.Text, Snippet: rq.Snippet, Correct: rq.Correct}, nil
	case KindDragDrop:
		if len(rq.Items) == 0 || len(rq.Order) != len(rq.Items) {
			return nil, fmt.Errorf("drag-drop question %q has mismatched items and order", rq.Text)
		}
		return &DragDrop{Text: rq.Text, Items: rq.Items, Order: rq.Order}, nil
	case KindCodingChallenge:
		if len(rq.TestCases) == 0 {
			return nil, fmt.Errorf("coding-challenge question %q has no test cases", rq.Text)
		}
		return &CodingChallenge{Text: rq.Text, Starter: rq.Starter, TestCases: rq.TestCases}, nil
	default:
		return nil, fmt.Errorf("unknown question kind %q", rq.Kind)
	}
}

// StaticBank is a JSON-backed QuestionBank.
type StaticBank struct {
	// entries[skill][difficulty]
	entries map[string]map[int]*bankSection
}

type bankSection struct {
	timeLimitSeconds int
	questions        []Question
}

// NewStaticBank parses a bank definition.
func NewStaticBank(raw []byte) (*StaticBank, error) {
	var file struct {
		Banks []bankEntry `json:"banks"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	b := &StaticBank{entries: make(map[string]map[int]*bankSection)}
	for _, e := range file.Banks {
		if e.Skill == "" || e.Difficulty < 1 || e.Difficulty > 5 {
			return nil, fmt.Errorf("bank entry for %q has invalid skill or difficulty %d", e.Skill, e.Difficulty)
		}
		if len(e.Questions) == 0 {
			return nil, fmt.Errorf("bank entry %s/%d has no questions", e.Skill, e.Difficulty)
		}
		section := &bankSection{timeLimitSeconds: e.TimeLimitSeconds}
		for _, rq := range e.Questions {
			q, err := rq.resolve()
			if err != nil {
				return nil, fmt.Errorf("bank entry %s/%d: %w", e.Skill, e.Difficulty, err)
			}
			section.questions = append(section.questions, q)
		}
		if b.entries[e.Skill] == nil {
			b.entries[e.Skill] = make(map[int]*bankSection)
		}
		b.entries[e.Skill][e.Difficulty] = section
	}
	return b, nil
}

// DefaultBank parses the embedded question bank.
func DefaultBank() (*StaticBank, error) {
	return NewStaticBank(defaultBankData)
}

// Generate returns the stocked section for the skill at the requested
// difficulty, falling back to the nearest stocked band below, then the
// nearest above.
func (b *StaticBank) Generate(skillID string, difficulty int) ([]Question, int, error) {
	byDiff, ok := b.entries[skillID]
	if !ok {
		return nil, 0, fmt.Errorf("no question bank for skill %q", skillID)
	}

	section := byDiff[difficulty]
	if section == nil {
		for d := difficulty - 1; d >= 1 && section == nil; d-- {
			section = byDiff[d]
		}
		for d := difficulty + 1; d <= 5 && section == nil; d++ {
			section = byDiff[d]
		}
	}
	if section == nil {
		return nil, 0, fmt.Errorf("no questions stocked for skill %q", skillID)
	}
	return section.questions, section.timeLimitSeconds, nil
}
