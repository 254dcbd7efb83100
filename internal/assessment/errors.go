package assessment

import (
	"fmt"
	"strings"
)

// ErrPrerequisitesNotMet indicates the user has not completed all
// prerequisites for the requested skill. Missing lists exactly the
// absent prerequisite IDs.
type ErrPrerequisitesNotMet struct {
	SkillID string
	Missing []string
}

func (e *ErrPrerequisitesNotMet) Error() string {
	return fmt.Sprintf("prerequisites not met for skill %q: missing %s",
		e.SkillID, strings.Join(e.Missing, ", "))
}

// ErrAssessmentNotFound indicates an unknown or already-consumed
// assessment ID.
type ErrAssessmentNotFound struct {
	AssessmentID string
}

func (e *ErrAssessmentNotFound) Error() string {
	return fmt.Sprintf("assessment not found: %q", e.AssessmentID)
}

// ErrValidation indicates a malformed responses payload.
type ErrValidation struct {
	Reason string
}

func (e *ErrValidation) Error() string {
	return "invalid submission: " + e.Reason
}
