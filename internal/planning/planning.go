// Package planning holds the career-planning records (career plans, skills
// assessments, pivot plans, AI chat logs) and the arithmetic derived from them.
//
// Every function here takes a record by value and returns a new one. Nothing
// performs I/O or reads the wall clock; callers pass "now" explicitly, usually
// requestcontext.Now(ctx).
//
// These are the transitions the planning services will call once records are
// persisted; until then the /api/careers, /api/skills, /api/pivot and /api/ai
// routes in the handler subpackage answer 501.
package planning

import (
	"math"
	"time"
)

// Priority ranks milestones, tasks, skill gaps and action items.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities from low (1) to critical (4). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// ProficiencyLevel is a coarse self-reported skill level.
type ProficiencyLevel string

const (
	LevelBeginner     ProficiencyLevel = "beginner"
	LevelIntermediate ProficiencyLevel = "intermediate"
	LevelAdvanced     ProficiencyLevel = "advanced"
	LevelExpert       ProficiencyLevel = "expert"
)

// DaysRemaining returns whole days from now until target, rounded up. The
// result is negative once target has passed. ok is false for a zero target.
func DaysRemaining(target, now time.Time) (days int, ok bool) {
	if target.IsZero() {
		return 0, false
	}
	d := target.Sub(now).Hours() / 24
	return int(math.Ceil(d)), true
}

// percent returns round(part/total*100), or 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
