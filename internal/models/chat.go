package models

// Settings are the per-request control panel options. Missing fields fall
// back to the server-side defaults from the yaml config.
type Settings struct {
	SafetyLevel   string `json:"safety_level"`   // strict, moderate, lenient
	Transparency  bool   `json:"transparency"`   // emit guardrail explanation
	LearningMode  bool   `json:"learning_mode"`  // emit educational breakdown
	DataLogging   bool   `json:"data_logging"`   // persist non-crisis messages
	ResponseSpeed string `json:"response_speed"` // safety, balanced, speed
}

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	Message      string    `json:"message"`
	LearningMode bool      `json:"learning_mode"`
	SessionID    string    `json:"session_id"`
	Settings     *Settings `json:"settings"`
}

// ContextAnalysis is the derived, per-turn result of inspecting recent
// conversation history. It is recomputed fresh for every turn.
type ContextAnalysis struct {
	RiskEscalation           bool               `json:"risk_escalation"`
	FilterBypassAttempt      bool               `json:"filter_bypass_attempt"`
	CumulativeRiskScore      float64            `json:"cumulative_risk_score"`
	PersistentSensitiveTopic bool               `json:"persistent_sensitive_topic"`
	ContextFlags             []string           `json:"context_flags"`
	PreviousQueries          []ConversationTurn `json:"previous_queries"`
}

// ConfidenceFactor is one line of the learning-mode confidence breakdown.
type ConfidenceFactor struct {
	Factor string `json:"factor"`
	Impact string `json:"impact"`
}

// LearningAnalysis is the educational breakdown produced in learning mode.
type LearningAnalysis struct {
	RiskCategory        string             `json:"risk_category"`
	TriggeredGuardrails []string           `json:"triggered_guardrails"`
	ConfidenceBreakdown []ConfidenceFactor `json:"confidence_breakdown"`
	SafetyTips          []string           `json:"safety_tips"`
	HumanReviewReason   string             `json:"human_review_reason,omitempty"`
	ContextAnalysis     *ContextAnalysis   `json:"context_analysis,omitempty"`
}

// ChatResponse is the payload returned by POST /chat.
type ChatResponse struct {
	Response             string            `json:"response"`
	Category             string            `json:"category"`         // medical | financial | legal | crisis | safe
	Confidence           float64           `json:"confidence"`       // safety filter confidence
	ConfidenceScore      float64           `json:"confidence_score"` // response confidence (0-100)
	ConfidenceLevel      string            `json:"confidence_level"` // High, Medium, Low
	ConfidenceReasons    []string          `json:"confidence_reasons"`
	Flagged              bool              `json:"flagged"`
	MessageForModerator  string            `json:"message_for_moderator"`
	SessionID            string            `json:"session_id"`
	PIIWarning           string            `json:"pii_warning,omitempty"`
	LearningAnalysis     *LearningAnalysis `json:"learning_analysis,omitempty"`
	GuardrailExplanation string            `json:"guardrail_explanation,omitempty"`
}
