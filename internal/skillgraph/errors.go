package skillgraph

import (
	"fmt"
	"strings"
)

// ErrSkillNotFound indicates a lookup for an unknown skill ID.
type ErrSkillNotFound struct {
	SkillID string
}

func (e *ErrSkillNotFound) Error() string {
	return fmt.Sprintf("skill not found: %q", e.SkillID)
}

// ErrConfiguration indicates the skill definitions are structurally
// invalid (cycles, duplicates, dangling prerequisites, bad thresholds).
// Detected at load time and fatal: the graph is never built from a bad set.
type ErrConfiguration struct {
	Problems []string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("skill graph validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}
