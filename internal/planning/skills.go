package planning

import (
	"slices"
	"time"

	"github.com/google/uuid"

	id "stellariq/pkg/domain"
)

type AssessmentStatus string

const (
	AssessmentDraft      AssessmentStatus = "draft"
	AssessmentInProgress AssessmentStatus = "in-progress"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentArchived   AssessmentStatus = "archived"
)

const (
	topSkillsLimit        = 5
	improvementAreasLimit = 10
	// ratings below this are improvement areas
	improvementThreshold = 7
	improvementTarget    = 8
)

// SkillsAssessment groups self-rated skills into categories.
type SkillsAssessment struct {
	ID          string            `json:"id"`
	UserID      id.UserID         `json:"userId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"`
	Status      AssessmentStatus  `json:"status"`
	Categories  []SkillCategory   `json:"categories"`
	Results     AssessmentResults `json:"results"`
	Duration    int               `json:"duration"` // minutes
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	External    []ExternalResult  `json:"externalAssessments,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	IsPublic    bool              `json:"isPublic"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type SkillCategory struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Skills      []Skill `json:"skills"`
}

type Skill struct {
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	ProficiencyLevel  ProficiencyLevel `json:"proficiencyLevel"`
	SelfRating        int              `json:"selfRating"`      // 1-10
	ConfidenceLevel   int              `json:"confidenceLevel"` // 1-10
	YearsOfExperience float64          `json:"yearsOfExperience"`
	IsRelevant        bool             `json:"isRelevant"`
	Notes             string           `json:"notes,omitempty"`
}

type ExternalResult struct {
	Platform       string     `json:"platform"`
	AssessmentName string     `json:"assessmentName"`
	Score          float64    `json:"score"`
	MaxScore       float64    `json:"maxScore"`
	CertificateURL string     `json:"certificateUrl,omitempty"`
	CompletedDate  *time.Time `json:"completedDate,omitempty"`
	ValidUntil     *time.Time `json:"validUntil,omitempty"`
}

type AssessmentResults struct {
	TotalSkills       int               `json:"totalSkills"`
	AverageRating     float64           `json:"averageRating"`
	AverageConfidence float64           `json:"averageConfidence"`
	SkillsByLevel     SkillsByLevel     `json:"skillsByLevel"`
	TopSkills         []SkillRating     `json:"topSkills"`
	ImprovementAreas  []ImprovementArea `json:"improvementAreas"`
}

type SkillsByLevel struct {
	Beginner     int `json:"beginner"`
	Intermediate int `json:"intermediate"`
	Advanced     int `json:"advanced"`
	Expert       int `json:"expert"`
}

type SkillRating struct {
	Skill      string `json:"skill"`
	Rating     int    `json:"rating"`
	Confidence int    `json:"confidence"`
}

type ImprovementArea struct {
	Skill         string   `json:"skill"`
	CurrentRating int      `json:"currentRating"`
	TargetRating  int      `json:"targetRating"`
	Priority      Priority `json:"priority"`
}

func NewSkillsAssessment(userID id.UserID, title string, now time.Time) SkillsAssessment {
	return SkillsAssessment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Type:      "self-assessment",
		Status:    AssessmentDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CompletionPercentage is 100 for completed assessments, 0 for drafts and
// otherwise the rounded share of skills carrying a rating.
func CompletionPercentage(a SkillsAssessment) int {
	switch a.Status {
	case AssessmentCompleted:
		return 100
	case AssessmentDraft:
		return 0
	}
	total, rated := 0, 0
	for _, c := range a.Categories {
		for _, s := range c.Skills {
			total++
			if s.SelfRating > 0 {
				rated++
			}
		}
	}
	return percent(rated, total)
}

// CalculateResults aggregates every rated skill: averages to one decimal, the
// five highest ratings, and up to ten improvement areas ordered by priority.
func CalculateResults(a SkillsAssessment) AssessmentResults {
	var (
		res                AssessmentResults
		ratingSum, confSum int
		ratings            []SkillRating
	)
	for _, c := range a.Categories {
		for _, s := range c.Skills {
			res.TotalSkills++
			ratingSum += s.SelfRating
			confSum += s.ConfidenceLevel
			res.SkillsByLevel.add(s.ProficiencyLevel)
			ratings = append(ratings, SkillRating{Skill: s.Name, Rating: s.SelfRating, Confidence: s.ConfidenceLevel})
		}
	}
	if res.TotalSkills > 0 {
		res.AverageRating = roundTenth(float64(ratingSum) / float64(res.TotalSkills))
		res.AverageConfidence = roundTenth(float64(confSum) / float64(res.TotalSkills))
	}

	top := slices.Clone(ratings)
	slices.SortStableFunc(top, func(x, y SkillRating) int { return y.Rating - x.Rating })
	res.TopSkills = top[:min(len(top), topSkillsLimit)]

	var areas []ImprovementArea
	for _, r := range ratings {
		if r.Rating >= improvementThreshold {
			continue
		}
		areas = append(areas, ImprovementArea{
			Skill:         r.Skill,
			CurrentRating: r.Rating,
			TargetRating:  improvementTarget,
			Priority:      gapPriority(r.Rating),
		})
	}
	slices.SortStableFunc(areas, func(x, y ImprovementArea) int { return y.Priority.Rank() - x.Priority.Rank() })
	res.ImprovementAreas = areas[:min(len(areas), improvementAreasLimit)]
	return res
}

func gapPriority(rating int) Priority {
	switch {
	case rating < 4:
		return PriorityCritical
	case rating < 6:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

func (l *SkillsByLevel) add(level ProficiencyLevel) {
	switch level {
	case LevelBeginner:
		l.Beginner++
	case LevelIntermediate:
		l.Intermediate++
	case LevelAdvanced:
		l.Advanced++
	case LevelExpert:
		l.Expert++
	}
}

// AddSkill appends s to the named category and refreshes the results. ok is
// false when the category does not exist.
func AddSkill(a SkillsAssessment, category string, s Skill, now time.Time) (SkillsAssessment, bool) {
	idx := categoryIndex(a, category)
	if idx < 0 {
		return a, false
	}
	if s.ProficiencyLevel == "" {
		s.ProficiencyLevel = LevelBeginner
	}
	a.Categories = slices.Clone(a.Categories)
	a.Categories[idx].Skills = append(slices.Clone(a.Categories[idx].Skills), s)
	a.Results = CalculateResults(a)
	a.UpdatedAt = now
	return a, true
}

// UpdateSkillRating sets rating and confidence on one skill and refreshes the
// results. ok is false when the category or skill does not exist.
func UpdateSkillRating(a SkillsAssessment, category, skill string, rating, confidence int, now time.Time) (SkillsAssessment, bool) {
	ci := categoryIndex(a, category)
	if ci < 0 {
		return a, false
	}
	si := slices.IndexFunc(a.Categories[ci].Skills, func(s Skill) bool { return s.Name == skill })
	if si < 0 {
		return a, false
	}
	a.Categories = slices.Clone(a.Categories)
	a.Categories[ci].Skills = slices.Clone(a.Categories[ci].Skills)
	a.Categories[ci].Skills[si].SelfRating = rating
	a.Categories[ci].Skills[si].ConfidenceLevel = confidence
	a.Results = CalculateResults(a)
	a.UpdatedAt = now
	return a, true
}

func categoryIndex(a SkillsAssessment, name string) int {
	return slices.IndexFunc(a.Categories, func(c SkillCategory) bool { return c.Name == name })
}
