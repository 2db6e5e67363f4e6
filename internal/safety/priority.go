package safety

import (
	"fmt"
	"strings"
)

// Priority levels, highest urgency first.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// PriorityRank orders priority levels for queue sorting, lower is more urgent.
var PriorityRank = map[string]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Priority carries the moderator queue placement for a flagged message.
type Priority struct {
	Level              string
	Reason             string
	TargetResponseTime int // minutes; 0 means immediate
}

// ResolvePriority walks a fixed rule ladder and returns the first match.
// Category and confidence come from the classifier, content is the redacted
// user message, confidenceScore is the 0-100 response score. Crisis content
// is critical with a zero minute target regardless of anything else; the
// content itself is rescanned for crisis keywords as backup in case the
// category was lost upstream.
func ResolvePriority(category string, confidence float64, content string, confidenceScore float64) Priority {
	lower := strings.ToLower(content)

	if category == CategoryCrisis || containsAny(lower, CrisisKeywords) {
		return Priority{PriorityCritical, "Mental health crisis detected", 0}
	}

	if category == CategoryMedical {
		return Priority{PriorityHigh, "Medical advice request requires professional oversight", 5}
	}

	if category == CategoryLegal {
		if containsAny(lower, illegalIntentKeywords) {
			return Priority{PriorityHigh, "Illegal activity inquiry detected", 5}
		}
		return Priority{PriorityHigh, "Legal advice request", 5}
	}

	if n := countHits(lower, toxicPatterns); n >= 2 {
		return Priority{PriorityHigh, fmt.Sprintf("High toxicity detected (%d indicators)", n), 5}
	}

	if category == CategoryFinancial {
		if confidenceScore < 30 || confidence < 0.3 {
			return Priority{PriorityMedium, "High-risk financial advice with low confidence", 15}
		}
		if containsAny(lower, highRiskFinancial) {
			return Priority{PriorityMedium, "High-risk financial advice detected", 15}
		}
		return Priority{PriorityMedium, "Financial advice request", 15}
	}

	if confidenceScore < 30 || confidence < 0.3 {
		return Priority{PriorityMedium, fmt.Sprintf("Low confidence response (%.0f%%)", confidenceScore), 15}
	}

	if containsAny(lower, controversialKeywords) {
		return Priority{PriorityMedium, "Controversial historical topic", 15}
	}

	if containsAny(lower, politicalKeywords) {
		return Priority{PriorityLow, "Political discussion", 60}
	}

	if containsAny(lower, religiousKeywords) {
		return Priority{PriorityLow, "Religious topic", 60}
	}

	if category != "" {
		return Priority{PriorityMedium, capitalize(category) + " content flagged", 15}
	}

	return Priority{PriorityLow, "General content review", 60}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
