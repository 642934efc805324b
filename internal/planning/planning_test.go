package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "stellariq/pkg/domain"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDaysRemaining(t *testing.T) {
	days, ok := DaysRemaining(now.Add(36*time.Hour), now)
	require.True(t, ok)
	assert.Equal(t, 2, days, "partial days round up")

	days, ok = DaysRemaining(now.Add(-36*time.Hour), now)
	require.True(t, ok)
	assert.Equal(t, -1, days)

	_, ok = DaysRemaining(time.Time{}, now)
	assert.False(t, ok)
}

func TestCareerPlanMilestones(t *testing.T) {
	plan := NewCareerPlan(id.NewUserID(), "Staff engineer", "Staff Engineer", now.AddDate(1, 0, 0), now)
	assert.Equal(t, 0, MilestoneProgress(plan))
	assert.Equal(t, CareerPlanDraft, plan.Status)
	assert.Equal(t, 12, plan.EstimatedDuration)

	plan = AddMilestone(plan, Milestone{Title: "Lead a project", DueDate: now.AddDate(0, 3, 0)}, now)
	plan = AddMilestone(plan, Milestone{Title: "Mentor two engineers", DueDate: now.AddDate(0, 6, 0)}, now)
	plan = AddMilestone(plan, Milestone{Title: "Publish design doc", DueDate: now.AddDate(0, 9, 0)}, now)
	require.Len(t, plan.Milestones, 3)
	assert.NotEmpty(t, plan.Milestones[0].ID)
	assert.Equal(t, PriorityMedium, plan.Milestones[0].Priority)

	before := plan
	plan, ok := CompleteMilestone(plan, plan.Milestones[1].ID, now)
	require.True(t, ok)
	assert.Equal(t, 33, MilestoneProgress(plan))
	assert.Equal(t, 33, plan.Progress)
	require.NotNil(t, plan.Milestones[1].CompletedDate)
	assert.False(t, before.Milestones[1].IsCompleted, "input plan must not be mutated")

	plan, _ = CompleteMilestone(plan, plan.Milestones[0].ID, now)
	assert.Equal(t, 67, plan.Progress)

	unchanged, ok := CompleteMilestone(plan, "missing", now)
	assert.False(t, ok)
	assert.Equal(t, plan.Progress, unchanged.Progress)
}

func TestWithUpdatedProgressKeepsManualProgressWithoutMilestones(t *testing.T) {
	plan := CareerPlan{Progress: 40}
	assert.Equal(t, 40, WithUpdatedProgress(plan).Progress)
}

func assessmentWith(status AssessmentStatus, skills ...Skill) SkillsAssessment {
	a := NewSkillsAssessment(id.NewUserID(), "Q1 review", now)
	a.Status = status
	a.Categories = []SkillCategory{{Name: "Engineering", Skills: skills}}
	return a
}

func TestCompletionPercentage(t *testing.T) {
	skills := []Skill{{Name: "Go", SelfRating: 8}, {Name: "SQL", SelfRating: 0}, {Name: "K8s", SelfRating: 3}}

	assert.Equal(t, 0, CompletionPercentage(assessmentWith(AssessmentDraft, skills...)))
	assert.Equal(t, 100, CompletionPercentage(assessmentWith(AssessmentCompleted)))
	assert.Equal(t, 67, CompletionPercentage(assessmentWith(AssessmentInProgress, skills...)))
	assert.Equal(t, 0, CompletionPercentage(assessmentWith(AssessmentInProgress)))
}

func TestCalculateResults(t *testing.T) {
	a := assessmentWith(AssessmentInProgress,
		Skill{Name: "Go", SelfRating: 9, ConfidenceLevel: 8, ProficiencyLevel: LevelExpert},
		Skill{Name: "SQL", SelfRating: 6, ConfidenceLevel: 5, ProficiencyLevel: LevelIntermediate},
		Skill{Name: "K8s", SelfRating: 3, ConfidenceLevel: 2, ProficiencyLevel: LevelBeginner},
		Skill{Name: "Rust", SelfRating: 5, ConfidenceLevel: 4, ProficiencyLevel: LevelBeginner},
		Skill{Name: "Design", SelfRating: 7, ConfidenceLevel: 7, ProficiencyLevel: LevelAdvanced},
		Skill{Name: "Speaking", SelfRating: 4, ConfidenceLevel: 3, ProficiencyLevel: LevelIntermediate},
	)
	res := CalculateResults(a)

	assert.Equal(t, 6, res.TotalSkills)
	assert.Equal(t, 5.7, res.AverageRating)     // 34/6
	assert.Equal(t, 4.8, res.AverageConfidence) // 29/6
	assert.Equal(t, SkillsByLevel{Beginner: 2, Intermediate: 2, Advanced: 1, Expert: 1}, res.SkillsByLevel)

	require.Len(t, res.TopSkills, 5)
	topNames := make([]string, 0, len(res.TopSkills))
	for _, s := range res.TopSkills {
		topNames = append(topNames, s.Skill)
	}
	assert.Equal(t, []string{"Go", "Design", "SQL", "Rust", "Speaking"}, topNames)

	areas := make([]string, 0, len(res.ImprovementAreas))
	for _, ia := range res.ImprovementAreas {
		areas = append(areas, ia.Skill+":"+string(ia.Priority))
		assert.Equal(t, 8, ia.TargetRating)
	}
	assert.Equal(t, []string{"K8s:critical", "Rust:high", "Speaking:high", "SQL:medium"}, areas)
}

func TestCalculateResultsEmpty(t *testing.T) {
	res := CalculateResults(assessmentWith(AssessmentInProgress))
	assert.Zero(t, res.TotalSkills)
	assert.Zero(t, res.AverageRating)
	assert.Empty(t, res.TopSkills)
	assert.Empty(t, res.ImprovementAreas)
}

func TestCalculateResultsCapsImprovementAreas(t *testing.T) {
	var skills []Skill
	for i := 0; i < 12; i++ {
		skills = append(skills, Skill{Name: string(rune('a' + i)), SelfRating: 2})
	}
	res := CalculateResults(assessmentWith(AssessmentInProgress, skills...))
	assert.Len(t, res.ImprovementAreas, 10)
	assert.Len(t, res.TopSkills, 5)
}

func TestAddSkillAndUpdateRating(t *testing.T) {
	a := assessmentWith(AssessmentInProgress, Skill{Name: "Go", SelfRating: 5, ConfidenceLevel: 5})

	a, ok := AddSkill(a, "Engineering", Skill{Name: "SQL", SelfRating: 9, ConfidenceLevel: 7}, now)
	require.True(t, ok)
	assert.Equal(t, 2, a.Results.TotalSkills)
	assert.Equal(t, LevelBeginner, a.Categories[0].Skills[1].ProficiencyLevel)

	_, ok = AddSkill(a, "Missing", Skill{Name: "X"}, now)
	assert.False(t, ok)

	before := a
	a, ok = UpdateSkillRating(a, "Engineering", "Go", 9, 8, now)
	require.True(t, ok)
	assert.Equal(t, 9.0, a.Results.AverageRating)
	assert.Equal(t, 5, before.Categories[0].Skills[0].SelfRating, "input must not be mutated")

	_, ok = UpdateSkillRating(a, "Engineering", "Cobol", 1, 1, now)
	assert.False(t, ok)
}

func TestRiskScore(t *testing.T) {
	plan := NewPivotPlan(id.NewUserID(), "Into data", "Analyst", "Data Engineer", "role-change", now.AddDate(0, 6, 0), now)
	assert.Equal(t, 0, RiskScore(plan))

	// 3x4 + 1x2 + 2x2 (defaults) = 18
	plan = AddRisk(plan, Risk{Risk: "Pay cut", Probability: ProbabilityHigh, Impact: PriorityCritical}, now)
	plan = AddRisk(plan, Risk{Risk: "Skill gap", Probability: ProbabilityLow, Impact: PriorityMedium}, now)
	plan = AddRisk(plan, Risk{Risk: "Market"}, now)
	assert.Equal(t, ProbabilityMedium, plan.Risks[2].Probability)
	assert.Equal(t, 6, RiskScore(plan))
}

func TestPivotProgress(t *testing.T) {
	plan := NewPivotPlan(id.NewUserID(), "Into data", "Analyst", "Data Engineer", "role-change", now.AddDate(0, 6, 0), now)
	assert.Equal(t, 0, PivotProgress(plan))

	plan = AddPhase(plan, Phase{Name: "Learn", Tasks: []Task{{Title: "SQL course"}, {Title: "Spark course"}}}, now)
	plan = AddPhase(plan, Phase{Name: "Apply", Tasks: []Task{{Title: "Portfolio"}}}, now)
	assert.Equal(t, 1, plan.Phases[0].Duration)

	plan, ok := CompleteTask(plan, 0, 1, now)
	require.True(t, ok)
	assert.Equal(t, 33, plan.Progress)
	require.NotNil(t, plan.Phases[0].Tasks[1].CompletedDate)

	_, ok = CompleteTask(plan, 2, 0, now)
	assert.False(t, ok)
	_, ok = CompleteTask(plan, 1, 5, now)
	assert.False(t, ok)
}

func TestChatLogLifecycle(t *testing.T) {
	log := NewChatLog(id.NewUserID(), "", now)
	assert.Equal(t, "general", log.Topic)
	assert.NotEmpty(t, log.SessionID)

	log = AddMessage(log, ChatMessage{Role: RoleUser, Content: "How do I become a staff engineer?"}, now.Add(time.Minute))
	log = AddMessage(log, ChatMessage{Role: RoleAssistant, Content: "Start by..."}, now.Add(2*time.Minute))
	log = AddMessage(log, ChatMessage{Role: RoleSystem, Content: "context"}, now.Add(3*time.Minute))
	assert.Equal(t, 3, log.Analytics.TotalMessages)
	assert.Equal(t, 1, log.Analytics.UserMessages)
	assert.Equal(t, 1, log.Analytics.AssistantMessages)
	assert.Equal(t, now.Add(3*time.Minute), log.LastActivity)
	assert.Equal(t, "text", log.Messages[0].MessageType)

	assert.Equal(t, 15, ChatDuration(log, now.Add(15*time.Minute+20*time.Second)))

	log = AddActionItem(log, ActionItem{Item: "Write a design doc"})
	log = AddActionItem(log, ActionItem{Item: "Find a mentor", Priority: PriorityHigh})
	log, ok := CompleteActionItem(log, 0, now.Add(4*time.Minute))
	require.True(t, ok)
	_, ok = CompleteActionItem(log, 9, now)
	assert.False(t, ok)

	log = AddInsight(log, Insight{Insight: "Strong systems background", Confidence: 0.8})
	assert.Equal(t, "other", log.Analytics.Insights[0].Type)

	rating := 4
	helpful := true
	log = SubmitFeedback(log, ChatFeedback{Rating: &rating, Helpful: &helpful}, now.Add(30*time.Minute))
	log = SubmitFeedback(log, ChatFeedback{Comment: "useful"}, now.Add(31*time.Minute))
	require.NotNil(t, log.Feedback.Rating)
	assert.Equal(t, 4, *log.Feedback.Rating)
	assert.Equal(t, "useful", log.Feedback.Comment)
	require.NotNil(t, log.Feedback.SubmittedAt)
	assert.Equal(t, now.Add(31*time.Minute), *log.Feedback.SubmittedAt)

	log = EndSession(log, now.Add(45*time.Minute))
	assert.Equal(t, ChatCompleted, log.Status)
	assert.Equal(t, 45, log.Analytics.SessionDuration)

	summary := Summarize(log, now.Add(2*time.Hour))
	assert.Equal(t, 45, summary.Duration, "closed sessions measure to EndTime")
	assert.Equal(t, 3, summary.TotalMessages)
	assert.Equal(t, 1, summary.PendingActionItems)
	require.NotNil(t, summary.Satisfaction)
	assert.Equal(t, 4, *summary.Satisfaction)
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityCritical.Rank())
	assert.Equal(t, 0, Priority("urgent").Rank())
}
