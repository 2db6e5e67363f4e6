package models

import (
	"time"

	"github.com/lib/pq"
)

// Conversation represents a chat session stored in the 'conversations' table.
type Conversation struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}

// Message represents one screened turn stored in the 'messages' table.
// Content is always the redacted text; raw input is never persisted.
type Message struct {
	ID                 int64          `db:"id" json:"id"`
	ConversationID     int64          `db:"conversation_id" json:"conversation_id"`
	Role               string         `db:"role" json:"role"` // "user" or "assistant"
	Content            string         `db:"content" json:"content"`
	Category           string         `db:"category" json:"category"` // medical, financial, legal, crisis, safe
	Confidence         *float64       `db:"confidence" json:"confidence,omitempty"`
	ConfidenceScore    *float64       `db:"confidence_score" json:"confidence_score,omitempty"`
	ConfidenceLevel    *string        `db:"confidence_level" json:"confidence_level,omitempty"`
	Flagged            bool           `db:"flagged" json:"flagged"`
	PIIDetected        bool           `db:"pii_detected" json:"pii_detected"`
	PIITypes           pq.StringArray `db:"pii_types" json:"pii_types,omitempty"`
	PriorityLevel      *string        `db:"priority_level" json:"priority_level,omitempty"`
	EscalationReason   *string        `db:"escalation_reason" json:"escalation_reason,omitempty"`
	TargetResponseTime *int           `db:"target_response_time" json:"target_response_time,omitempty"`
	Timestamp          time.Time      `db:"timestamp" json:"timestamp"`
}

// ConversationTurn is the read-only view of a prior turn handed to the
// context analyzer (role, content, classification of up to 9 recent turns).
type ConversationTurn struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Category   string    `json:"category,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// FlaggedItem is one entry of the moderator queue view: a flagged user turn
// joined with its assistant reply and safety metadata.
type FlaggedItem struct {
	ID                 int64    `json:"id"`
	Timestamp          string   `json:"timestamp"`
	UserMessage        string   `json:"user_message"`
	AIResponse         string   `json:"ai_response"`
	Category           string   `json:"category"`
	Confidence         *float64 `json:"confidence,omitempty"`
	ConfidenceScore    *float64 `json:"confidence_score,omitempty"`
	ConfidenceLevel    *string  `json:"confidence_level,omitempty"`
	PriorityLevel      *string  `json:"priority_level,omitempty"`
	EscalationReason   *string  `json:"escalation_reason,omitempty"`
	TargetResponseTime *int     `json:"target_response_time,omitempty"`
}
