package planning

import (
	"slices"
	"time"

	"github.com/google/uuid"

	id "stellariq/pkg/domain"
)

type CareerPlanStatus string

const (
	CareerPlanDraft     CareerPlanStatus = "draft"
	CareerPlanActive    CareerPlanStatus = "active"
	CareerPlanPaused    CareerPlanStatus = "paused"
	CareerPlanCompleted CareerPlanStatus = "completed"
	CareerPlanAbandoned CareerPlanStatus = "abandoned"
)

type ResourceType string

const (
	ResourceCourse  ResourceType = "course"
	ResourceBook    ResourceType = "book"
	ResourceArticle ResourceType = "article"
	ResourceVideo   ResourceType = "video"
	ResourcePodcast ResourceType = "podcast"
	ResourceOther   ResourceType = "other"
)

// CareerPlan is a user's plan towards a target role.
type CareerPlan struct {
	ID                string           `json:"id"`
	UserID            id.UserID        `json:"userId"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	TargetRole        string           `json:"targetRole"`
	TargetCompany     string           `json:"targetCompany,omitempty"`
	TargetIndustry    string           `json:"targetIndustry,omitempty"`
	TargetSalary      *float64         `json:"targetSalary,omitempty"`
	TargetDate        time.Time        `json:"targetDate"`
	EstimatedDuration int              `json:"estimatedDuration"` // months
	Status            CareerPlanStatus `json:"status"`
	Progress          int              `json:"progress"`
	RequiredSkills    []RequiredSkill  `json:"requiredSkills"`
	Milestones        []Milestone      `json:"milestones"`
	Resources         []Resource       `json:"resources"`
	Notes             string           `json:"notes,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	IsPublic          bool             `json:"isPublic"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

type RequiredSkill struct {
	Skill      string     `json:"skill"`
	Priority   Priority   `json:"priority"`
	IsAcquired bool       `json:"isAcquired"`
	TargetDate *time.Time `json:"targetDate,omitempty"`
}

type Milestone struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DueDate       time.Time  `json:"dueDate"`
	IsCompleted   bool       `json:"isCompleted"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	Priority      Priority   `json:"priority"`
}

type Resource struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Type        ResourceType `json:"type"`
	IsCompleted bool         `json:"isCompleted"`
}

// NewCareerPlan returns a draft plan with the defaults applied.
func NewCareerPlan(userID id.UserID, title, targetRole string, targetDate, now time.Time) CareerPlan {
	return CareerPlan{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             title,
		TargetRole:        targetRole,
		TargetDate:        targetDate,
		EstimatedDuration: 12,
		Status:            CareerPlanDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// MilestoneProgress is the rounded percentage of completed milestones.
func MilestoneProgress(plan CareerPlan) int {
	completed := 0
	for _, m := range plan.Milestones {
		if m.IsCompleted {
			completed++
		}
	}
	return percent(completed, len(plan.Milestones))
}

// WithUpdatedProgress copies MilestoneProgress into Progress. A plan without
// milestones keeps its manually set progress.
func WithUpdatedProgress(plan CareerPlan) CareerPlan {
	if len(plan.Milestones) > 0 {
		plan.Progress = MilestoneProgress(plan)
	}
	return plan
}

// AddMilestone appends m, assigning an ID and default priority when missing.
func AddMilestone(plan CareerPlan, m Milestone, now time.Time) CareerPlan {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Priority == "" {
		m.Priority = PriorityMedium
	}
	plan.Milestones = append(slices.Clone(plan.Milestones), m)
	plan.UpdatedAt = now
	return WithUpdatedProgress(plan)
}

// CompleteMilestone marks the milestone done and recomputes progress. ok is
// false when no milestone has that ID; the plan is then returned unchanged.
func CompleteMilestone(plan CareerPlan, milestoneID string, now time.Time) (CareerPlan, bool) {
	idx := slices.IndexFunc(plan.Milestones, func(m Milestone) bool { return m.ID == milestoneID })
	if idx < 0 {
		return plan, false
	}
	plan.Milestones = slices.Clone(plan.Milestones)
	plan.Milestones[idx].IsCompleted = true
	plan.Milestones[idx].CompletedDate = &now
	plan.UpdatedAt = now
	return WithUpdatedProgress(plan), true
}
