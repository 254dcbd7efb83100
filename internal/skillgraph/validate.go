package skillgraph

import (
	"fmt"
	"strings"
)

// validateSkills performs all structural checks on the given skill set.
// Returns an *ErrConfiguration describing all problems found, or nil.
func validateSkills(skills []Skill) error {
	var errs []string

	idSet := make(map[string]bool, len(skills))

	// Check for duplicate and empty IDs
	for _, s := range skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
			continue
		}
		if idSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		idSet[s.ID] = true
	}

	// Check for dangling or self-referential prerequisites
	for _, s := range skills {
		for _, prereqID := range s.Prerequisites {
			if prereqID == s.ID {
				errs = append(errs, fmt.Sprintf("skill %q lists itself as a prerequisite", s.ID))
				continue
			}
			if !idSet[prereqID] {
				errs = append(errs, fmt.Sprintf("skill %q references nonexistent prerequisite %q", s.ID, prereqID))
			}
		}
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(skills))
	adjList := make(map[string][]string)
	for _, s := range skills {
		inDegree[s.ID] = len(s.Prerequisites)
		for _, prereqID := range s.Prerequisites {
			adjList[prereqID] = append(adjList[prereqID], s.ID)
		}
	}

	var queue []string
	for _, s := range skills {
		if inDegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(skills) {
		var cycleNodes []string
		for _, s := range skills {
			if inDegree[s.ID] > 0 {
				cycleNodes = append(cycleNodes, s.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycleNodes, ", ")))
	}

	// Check per-skill fields
	for _, s := range skills {
		if s.MasteryThreshold <= 0 || s.MasteryThreshold > 1.0 {
			errs = append(errs, fmt.Sprintf("skill %q: mastery threshold must be in (0, 1.0], got %f", s.ID, s.MasteryThreshold))
		}
		if s.DifficultyBands < 1 || s.DifficultyBands > 5 {
			errs = append(errs, fmt.Sprintf("skill %q: difficulty bands must be 1-5, got %d", s.ID, s.DifficultyBands))
		}
	}

	if len(errs) > 0 {
		return &ErrConfiguration{Problems: errs}
	}
	return nil
}
