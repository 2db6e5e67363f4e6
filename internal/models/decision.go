package models

import "time"

// Moderator actions. A flagged message is pending until exactly one of these
// is recorded for it; decisions are append-only and never reopened.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionEdit     = "edit"
	ActionClarify  = "clarify"
	ActionEscalate = "escalate"
)

// ReviewState describes where a flagged message sits in the review lifecycle.
type ReviewState string

const (
	ReviewPending  ReviewState = "pending"
	ReviewResolved ReviewState = "resolved"
)

// ModeratorDecision is an immutable audit record of one moderator action,
// stored in the 'moderator_decisions' table.
type ModeratorDecision struct {
	ID                int64     `db:"id" json:"id"`
	MessageID         int64     `db:"message_id" json:"message_id"`
	Moderator         *string   `db:"moderator" json:"moderator,omitempty"` // nil for anonymous action
	Action            string    `db:"action" json:"action"`
	OriginalResponse  *string   `db:"original_response" json:"original_response,omitempty"`
	EditedResponse    *string   `db:"edited_response" json:"edited_response,omitempty"`
	RejectionReason   *string   `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	ReviewTimeSeconds *float64  `db:"review_time_seconds" json:"review_time_seconds,omitempty"`
	Timestamp         time.Time `db:"timestamp" json:"timestamp"`
}

// StateOf derives the review state from decision existence, keeping the
// implicit "no row means pending" rule behind an explicit predicate.
func StateOf(hasDecision bool) ReviewState {
	if hasDecision {
		return ReviewResolved
	}
	return ReviewPending
}

// ModeratorActionRequest is the payload for POST /moderator/queue/:id/action.
type ModeratorActionRequest struct {
	Action              string   `json:"action" binding:"required"`
	EditedResponse      string   `json:"edited_response"`
	AlternativeResponse string   `json:"alternative_response"` // for reject
	RejectionReason     string   `json:"rejection_reason"`
	Notes               string   `json:"notes"`
	ReviewTimeSeconds   *float64 `json:"review_time_seconds"`
}

// ActionResult is returned after a decision has been recorded.
type ActionResult struct {
	MessageID        int64  `json:"id"`
	DecisionID       int64  `json:"decision_id"`
	OriginalResponse string `json:"original_response"`
	FinalResponse    string `json:"final_response"`
}
