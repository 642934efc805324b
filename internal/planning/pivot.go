package planning

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	id "stellariq/pkg/domain"
)

type PivotStatus string

const (
	PivotPlanning    PivotStatus = "planning"
	PivotPreparation PivotStatus = "preparation"
	PivotExecution   PivotStatus = "execution"
	PivotTransition  PivotStatus = "transition"
	PivotCompleted   PivotStatus = "completed"
	PivotPaused      PivotStatus = "paused"
	PivotAbandoned   PivotStatus = "abandoned"
)

// Probability of a pivot risk materialising.
type Probability string

const (
	ProbabilityLow      Probability = "low"
	ProbabilityMedium   Probability = "medium"
	ProbabilityHigh     Probability = "high"
	ProbabilityVeryHigh Probability = "very-high"
)

// PivotPlan describes a move from a current role or industry to a target one.
type PivotPlan struct {
	ID                string      `json:"id"`
	UserID            id.UserID   `json:"userId"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	CurrentRole       string      `json:"currentRole"`
	CurrentIndustry   string      `json:"currentIndustry,omitempty"`
	TargetRole        string      `json:"targetRole"`
	TargetIndustry    string      `json:"targetIndustry,omitempty"`
	PivotType         string      `json:"pivotType"`
	TargetDate        time.Time   `json:"targetDate"`
	EstimatedDuration int         `json:"estimatedDuration"` // months
	Status            PivotStatus `json:"status"`
	Progress          int         `json:"progress"`
	Phases            []Phase     `json:"phases"`
	Risks             []Risk      `json:"risks"`
	Notes             string      `json:"notes,omitempty"`
	Tags              []string    `json:"tags,omitempty"`
	IsPublic          bool        `json:"isPublic"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

type Phase struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration"` // months
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	Tasks       []Task     `json:"tasks"`
}

type Task struct {
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Priority      Priority   `json:"priority"`
	IsCompleted   bool       `json:"isCompleted"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
}

type Risk struct {
	Risk        string      `json:"risk"`
	Probability Probability `json:"probability"`
	Impact      Priority    `json:"impact"`
	Mitigation  string      `json:"mitigation,omitempty"`
}

func NewPivotPlan(userID id.UserID, title, currentRole, targetRole, pivotType string, targetDate, now time.Time) PivotPlan {
	return PivotPlan{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             title,
		CurrentRole:       currentRole,
		TargetRole:        targetRole,
		PivotType:         pivotType,
		TargetDate:        targetDate,
		EstimatedDuration: 6,
		Status:            PivotPlanning,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (p Probability) weight() int {
	switch p {
	case ProbabilityLow:
		return 1
	case ProbabilityMedium:
		return 2
	case ProbabilityHigh:
		return 3
	case ProbabilityVeryHigh:
		return 4
	default:
		return 0
	}
}

// RiskScore averages probability x impact over all risks, each on a 1-4
// scale, and rounds to the nearest integer. No risks scores 0.
func RiskScore(plan PivotPlan) int {
	if len(plan.Risks) == 0 {
		return 0
	}
	total := 0
	for _, r := range plan.Risks {
		total += r.Probability.weight() * r.Impact.Rank()
	}
	return int(math.Round(float64(total) / float64(len(plan.Risks))))
}

// PivotProgress is the rounded percentage of completed tasks across all phases.
func PivotProgress(plan PivotPlan) int {
	total, done := 0, 0
	for _, ph := range plan.Phases {
		for _, t := range ph.Tasks {
			total++
			if t.IsCompleted {
				done++
			}
		}
	}
	return percent(done, total)
}

func AddPhase(plan PivotPlan, phase Phase, now time.Time) PivotPlan {
	if phase.Duration < 1 {
		phase.Duration = 1
	}
	plan.Phases = append(slices.Clone(plan.Phases), phase)
	plan.Progress = PivotProgress(plan)
	plan.UpdatedAt = now
	return plan
}

// CompleteTask marks one task done and recomputes progress. ok is false when
// either index is out of range.
func CompleteTask(plan PivotPlan, phaseIdx, taskIdx int, now time.Time) (PivotPlan, bool) {
	if phaseIdx < 0 || phaseIdx >= len(plan.Phases) {
		return plan, false
	}
	if taskIdx < 0 || taskIdx >= len(plan.Phases[phaseIdx].Tasks) {
		return plan, false
	}
	plan.Phases = slices.Clone(plan.Phases)
	plan.Phases[phaseIdx].Tasks = slices.Clone(plan.Phases[phaseIdx].Tasks)
	task := &plan.Phases[phaseIdx].Tasks[taskIdx]
	task.IsCompleted = true
	task.CompletedDate = &now
	plan.Progress = PivotProgress(plan)
	plan.UpdatedAt = now
	return plan, true
}

func AddRisk(plan PivotPlan, risk Risk, now time.Time) PivotPlan {
	if risk.Probability == "" {
		risk.Probability = ProbabilityMedium
	}
	if risk.Impact == "" {
		risk.Impact = PriorityMedium
	}
	plan.Risks = append(slices.Clone(plan.Risks), risk)
	plan.UpdatedAt = now
	return plan
}
