package model

import (
	"time"
)

// SessionStatusCode interview session lifecycle states.
type SessionStatusCode int

const (
	SessionStatusCodeActive  SessionStatusCode = 1
	SessionStatusCodeEnded   SessionStatusCode = 2
	SessionStatusCodeExpired SessionStatusCode = 3
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"

	// EndInterviewSentinel replaces the user message once the moderation
	// limit is hit; the system prompt instructs the model to wrap up.
	EndInterviewSentinel = "[END_INTERVIEW_INAPPROPRIATE_BEHAVIOR]"
)

// AccountDo account record synced from the identity provider.
type AccountDo struct {
	// ID provider uid, database unique key.
	ID string `json:"id" bson:"_id"`
	// Email verified email reported by the provider, may be empty.
	Email    string `json:"email" bson:"email"`
	Nickname string `json:"nickname" bson:"nickname"`
	// RegisterTime first time this uid was seen.
	RegisterTime time.Time `json:"registerTime" bson:"registerTime"`
	// LastLoginTime last authenticated request.
	LastLoginTime time.Time `json:"lastLoginTime" bson:"lastLoginTime"`
}

// MessageDo one transcript entry.
type MessageDo struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// SessionDo interview session record.
type SessionDo struct {
	// ID session ID, database unique key.
	ID     string `json:"id" bson:"_id"`
	UserID string `json:"userId" bson:"userId"`
	// UserEmail denormalized for transcript export.
	UserEmail       string `json:"userEmail" bson:"userEmail"`
	Domain          string `json:"domain" bson:"domain"`
	Role            string `json:"role" bson:"role"`
	InterviewType   string `json:"interviewType" bson:"interviewType"`
	Difficulty      string `json:"difficulty" bson:"difficulty"`
	DurationMinutes int    `json:"durationMinutes" bson:"durationMinutes"`
	// SystemPrompt pinned at creation so mid-session config changes don't
	// alter a running interview.
	SystemPrompt string      `json:"-" bson:"systemPrompt"`
	Messages     []MessageDo `json:"messages" bson:"messages"`
	Status       int         `json:"status" bson:"status"`

	ExchangeCount      int `json:"exchangeCount" bson:"exchangeCount"`
	QuestionCount      int `json:"questionCount" bson:"questionCount"`
	InappropriateCount int `json:"inappropriateCount" bson:"inappropriateCount"`
	RedirectCount      int `json:"redirectCount" bson:"redirectCount"`

	TranscriptURL string `json:"transcriptUrl,omitempty" bson:"transcriptUrl,omitempty"`

	CreateTime time.Time `json:"createTime" bson:"createTime"`
	UpdateTime time.Time `json:"updateTime" bson:"updateTime"`
	EndTime    time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
}

// Ended reports whether the session is no longer accepting chat turns.
func (s *SessionDo) Ended() bool {
	return s.Status != int(SessionStatusCodeActive)
}

// RemainingMinutes time budget left, can go negative when overdue.
func (s *SessionDo) RemainingMinutes(now time.Time) float64 {
	elapsed := now.Sub(s.CreateTime).Minutes()
	return float64(s.DurationMinutes) - elapsed
}

// TranscriptDo payload uploaded by the transcript export operation.
type TranscriptDo struct {
	SessionID     string      `json:"sessionId"`
	UserEmail     string      `json:"userEmail"`
	Domain        string      `json:"domain"`
	Role          string      `json:"role"`
	InterviewType string      `json:"interviewType"`
	Difficulty    string      `json:"difficulty"`
	CreatedAt     time.Time   `json:"createdAt"`
	EndedAt       time.Time   `json:"endedAt,omitempty"`
	Messages      []MessageDo `json:"messages"`
}
