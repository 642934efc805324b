package planning

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	id "stellariq/pkg/domain"
)

type ChatStatus string

const (
	ChatActive    ChatStatus = "active"
	ChatPaused    ChatStatus = "paused"
	ChatCompleted ChatStatus = "completed"
	ChatArchived  ChatStatus = "archived"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ChatLog records one AI coaching session.
type ChatLog struct {
	ID           string        `json:"id"`
	UserID       id.UserID     `json:"userId"`
	SessionID    string        `json:"sessionId"`
	Title        string        `json:"title"`
	Topic        string        `json:"topic"`
	Messages     []ChatMessage `json:"messages"`
	Status       ChatStatus    `json:"status"`
	Analytics    ChatAnalytics `json:"analytics"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
	LastActivity time.Time     `json:"lastActivity"`
	Feedback     ChatFeedback  `json:"feedback"`
	Tags         []string      `json:"tags,omitempty"`
}

type ChatMessage struct {
	Role        MessageRole `json:"role"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	MessageType string      `json:"messageType"`
}

type ChatAnalytics struct {
	TotalMessages     int          `json:"totalMessages"`
	UserMessages      int          `json:"userMessages"`
	AssistantMessages int          `json:"assistantMessages"`
	SessionDuration   int          `json:"sessionDuration"` // minutes
	UserSatisfaction  *int         `json:"userSatisfaction,omitempty"`
	ActionItems       []ActionItem `json:"actionItems"`
	Insights          []Insight    `json:"insights"`
}

type ActionItem struct {
	Item          string     `json:"item"`
	Priority      Priority   `json:"priority"`
	IsCompleted   bool       `json:"isCompleted"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
}

type Insight struct {
	Type       string  `json:"type"`
	Insight    string  `json:"insight"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
}

// ChatFeedback is the user's rating of a session. Nil fields are unset.
type ChatFeedback struct {
	Rating         *int       `json:"rating,omitempty"` // 1-5
	Comment        string     `json:"comment,omitempty"`
	Helpful        *bool      `json:"helpful,omitempty"`
	WouldRecommend *bool      `json:"wouldRecommend,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
}

// ChatSummary is the condensed view of a session.
type ChatSummary struct {
	SessionID          string     `json:"sessionId"`
	Title              string     `json:"title"`
	Topic              string     `json:"topic"`
	Duration           int        `json:"duration"`
	TotalMessages      int        `json:"totalMessages"`
	UserMessages       int        `json:"userMessages"`
	AssistantMessages  int        `json:"assistantMessages"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            *time.Time `json:"endTime,omitempty"`
	Status             ChatStatus `json:"status"`
	Satisfaction       *int       `json:"satisfaction,omitempty"`
	PendingActionItems int        `json:"actionItems"`
}

func NewChatLog(userID id.UserID, topic string, now time.Time) ChatLog {
	if topic == "" {
		topic = "general"
	}
	return ChatLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionID:    uuid.NewString(),
		Title:        "Career Chat Session",
		Topic:        topic,
		Status:       ChatActive,
		StartTime:    now,
		LastActivity: now,
	}
}

// ChatDuration is the session length in whole minutes, measured to EndTime or,
// for an open session, to now.
func ChatDuration(log ChatLog, now time.Time) int {
	if log.StartTime.IsZero() {
		return 0
	}
	end := now
	if log.EndTime != nil {
		end = *log.EndTime
	}
	return int(math.Round(end.Sub(log.StartTime).Minutes()))
}

// AddMessage appends msg and refreshes the message counters.
func AddMessage(log ChatLog, msg ChatMessage, now time.Time) ChatLog {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	if msg.MessageType == "" {
		msg.MessageType = "text"
	}
	log.Messages = append(slices.Clone(log.Messages), msg)
	log.LastActivity = now
	log.Analytics = countMessages(log.Analytics, log.Messages)
	return log
}

func countMessages(a ChatAnalytics, msgs []ChatMessage) ChatAnalytics {
	a.TotalMessages = len(msgs)
	a.UserMessages, a.AssistantMessages = 0, 0
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			a.UserMessages++
		case RoleAssistant:
			a.AssistantMessages++
		}
	}
	return a
}

// EndSession closes the session and freezes its duration.
func EndSession(log ChatLog, now time.Time) ChatLog {
	log.Status = ChatCompleted
	log.EndTime = &now
	log.Analytics.SessionDuration = ChatDuration(log, now)
	return log
}

func AddActionItem(log ChatLog, item ActionItem) ChatLog {
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}
	log.Analytics.ActionItems = append(slices.Clone(log.Analytics.ActionItems), item)
	return log
}

// CompleteActionItem marks the item at idx done. ok is false when idx is out of range.
func CompleteActionItem(log ChatLog, idx int, now time.Time) (ChatLog, bool) {
	if idx < 0 || idx >= len(log.Analytics.ActionItems) {
		return log, false
	}
	log.Analytics.ActionItems = slices.Clone(log.Analytics.ActionItems)
	log.Analytics.ActionItems[idx].IsCompleted = true
	log.Analytics.ActionItems[idx].CompletedDate = &now
	return log, true
}

func AddInsight(log ChatLog, insight Insight) ChatLog {
	if insight.Type == "" {
		insight.Type = "other"
	}
	log.Analytics.Insights = append(slices.Clone(log.Analytics.Insights), insight)
	return log
}

// SubmitFeedback merges fb over the existing feedback, stamps it, and records
// the rating as the session's satisfaction score.
func SubmitFeedback(log ChatLog, fb ChatFeedback, now time.Time) ChatLog {
	merged := log.Feedback
	if fb.Rating != nil {
		merged.Rating = fb.Rating
	}
	if fb.Comment != "" {
		merged.Comment = fb.Comment
	}
	if fb.Helpful != nil {
		merged.Helpful = fb.Helpful
	}
	if fb.WouldRecommend != nil {
		merged.WouldRecommend = fb.WouldRecommend
	}
	merged.SubmittedAt = &now
	log.Feedback = merged
	if fb.Rating != nil {
		log.Analytics.UserSatisfaction = fb.Rating
	}
	return log
}

func Summarize(log ChatLog, now time.Time) ChatSummary {
	counts := countMessages(ChatAnalytics{}, log.Messages)
	pending := 0
	for _, item := range log.Analytics.ActionItems {
		if !item.IsCompleted {
			pending++
		}
	}
	return ChatSummary{
		SessionID:          log.SessionID,
		Title:              log.Title,
		Topic:              log.Topic,
		Duration:           ChatDuration(log, now),
		TotalMessages:      counts.TotalMessages,
		UserMessages:       counts.UserMessages,
		AssistantMessages:  counts.AssistantMessages,
		StartTime:          log.StartTime,
		EndTime:            log.EndTime,
		Status:             log.Status,
		Satisfaction:       log.Feedback.Rating,
		PendingActionItems: pending,
	}
}
