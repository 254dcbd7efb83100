package skillgraph

// Skill represents a single skill node in the prerequisite graph.
// Skills are loaded once at startup and never mutated at runtime.
type Skill struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Prerequisites lists skill IDs that must be completed before this
	// skill becomes available. Must form a DAG across the full skill set.
	Prerequisites []string `json:"prerequisites"`

	// MasteryThreshold is the running-mean score fraction in (0, 1]
	// required to mark this skill as completed.
	MasteryThreshold float64 `json:"mastery_threshold"`

	// DifficultyBands is the number of difficulty bands (1-5) the
	// question bank stocks for this skill.
	DifficultyBands int `json:"difficulty_bands"`

	// BankRef names the question bank section for this skill. Defaults
	// to the skill ID when empty.
	BankRef string `json:"bank_ref,omitempty"`
}

// Bank returns the question bank key for this skill.
func (s Skill) Bank() string {
	if s.BankRef != "" {
		return s.BankRef
	}
	return s.ID
}
