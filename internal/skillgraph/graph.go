package skillgraph

import (
	"slices"
	"sort"
	"time"

	"github.com/abhisek/skilltrack/internal/spacedrep"
)

// Graph holds the immutable skill DAG with precomputed indices.
// Built once at startup from validated skill definitions.
type Graph struct {
	skills     []Skill
	byID       map[string]*Skill
	roots      []Skill
	dependents map[string][]string
	topoOrder  []Skill
	topoIndex  map[string]int
}

// New constructs a Graph from a slice of skills. The skill set is
// validated first; any structural problem returns *ErrConfiguration
// and no graph is built.
func New(skills []Skill) (*Graph, error) {
	if err := validateSkills(skills); err != nil {
		return nil, err
	}

	g := &Graph{
		skills:     slices.Clone(skills),
		byID:       make(map[string]*Skill, len(skills)),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(skills)),
	}

	// Build ID index
	for i := range g.skills {
		g.byID[g.skills[i].ID] = &g.skills[i]
	}

	// Build reverse edges (dependents)
	for i := range g.skills {
		for _, prereqID := range g.skills[i].Prerequisites {
			g.dependents[prereqID] = append(g.dependents[prereqID], g.skills[i].ID)
		}
	}

	// Topological sort (Kahn's algorithm)
	inDegree := make(map[string]int, len(skills))
	for i := range g.skills {
		inDegree[g.skills[i].ID] = len(g.skills[i].Prerequisites)
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	// Sort initial queue for deterministic ordering
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		g.topoOrder = append(g.topoOrder, *g.byID[id])

		deps := slices.Clone(g.dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	for i, s := range g.topoOrder {
		g.topoIndex[s.ID] = i
	}

	// Identify roots
	for i := range g.skills {
		if len(g.skills[i].Prerequisites) == 0 {
			g.roots = append(g.roots, g.skills[i])
		}
	}

	return g, nil
}

// GetSkill returns a skill by ID, or *ErrSkillNotFound if unknown.
func (g *Graph) GetSkill(id string) (Skill, error) {
	s, ok := g.byID[id]
	if !ok {
		return Skill{}, &ErrSkillNotFound{SkillID: id}
	}
	return *s, nil
}

// AllSkills returns all skills in the graph.
func (g *Graph) AllSkills() []Skill {
	return slices.Clone(g.skills)
}

// RootSkills returns all skills with no prerequisites.
func (g *Graph) RootSkills() []Skill {
	return slices.Clone(g.roots)
}

// TopologicalOrder returns all skills in a valid topological order.
func (g *Graph) TopologicalOrder() []Skill {
	return slices.Clone(g.topoOrder)
}

// Prerequisites returns the direct prerequisite skills for a skill ID.
func (g *Graph) Prerequisites(id string) []Skill {
	s, ok := g.byID[id]
	if !ok {
		return nil
	}
	result := make([]Skill, 0, len(s.Prerequisites))
	for _, prereqID := range s.Prerequisites {
		if p, ok := g.byID[prereqID]; ok {
			result = append(result, *p)
		}
	}
	return result
}

// Dependents returns skills that directly depend on the given skill ID.
func (g *Graph) Dependents(id string) []Skill {
	depIDs := g.dependents[id]
	result := make([]Skill, 0, len(depIDs))
	for _, depID := range depIDs {
		if s, ok := g.byID[depID]; ok {
			result = append(result, *s)
		}
	}
	return result
}

// MissingPrerequisites returns the prerequisite IDs of the given skill
// that are absent from the completed set, in definition order.
func (g *Graph) MissingPrerequisites(id string, completed map[string]bool) []string {
	s, ok := g.byID[id]
	if !ok {
		return nil
	}
	var missing []string
	for _, prereqID := range s.Prerequisites {
		if !completed[prereqID] {
			missing = append(missing, prereqID)
		}
	}
	return missing
}

// IsUnlocked returns true if all prerequisites for the skill are in the
// completed set.
func (g *Graph) IsUnlocked(id string, completed map[string]bool) bool {
	s, ok := g.byID[id]
	if !ok {
		return false
	}
	for _, prereqID := range s.Prerequisites {
		if !completed[prereqID] {
			return false
		}
	}
	return true
}

// AvailableSkills returns all skills that are unlocked but not yet
// completed, in topological order.
func (g *Graph) AvailableSkills(completed map[string]bool) []Skill {
	var result []Skill
	for _, s := range g.topoOrder {
		if !completed[s.ID] && g.IsUnlocked(s.ID, completed) {
			result = append(result, s)
		}
	}
	return result
}

// RecommendedSkills ranks the available skills by descending review
// priority and truncates to limit. reviews carries the per-skill review
// snapshots for skills the learner has attempted; skills without a
// snapshot rank by the zero-priority tiebreaks (mastery, then ID).
func (g *Graph) RecommendedSkills(completed map[string]bool, reviews map[string]spacedrep.ReviewSnapshot, limit int, now time.Time) []Skill {
	available := g.AvailableSkills(completed)

	snaps := make([]spacedrep.ReviewSnapshot, 0, len(available))
	for _, s := range available {
		if rs, ok := reviews[s.ID]; ok {
			snaps = append(snaps, rs)
		} else {
			snaps = append(snaps, spacedrep.ReviewSnapshot{SkillID: s.ID})
		}
	}
	spacedrep.SortByPriority(snaps, now)

	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	result := make([]Skill, 0, len(snaps))
	for _, rs := range snaps {
		result = append(result, *g.byID[rs.SkillID])
	}
	return result
}
