package safety

import (
	"fmt"
	"strings"

	"safetychat/internal/models"
)

// Flag thresholds per safety level: a response whose confidence score falls
// below the threshold is flagged.
const (
	thresholdStrict   = 70.0
	thresholdModerate = 50.0
	thresholdLenient  = 30.0
)

// ThresholdFor maps a safety level setting to its confidence threshold.
// Unknown levels fall back to moderate.
func ThresholdFor(level string) float64 {
	switch level {
	case "strict":
		return thresholdStrict
	case "lenient":
		return thresholdLenient
	default:
		return thresholdModerate
	}
}

// Assessment is the pre-generation verdict for an incoming message: keyword
// classification merged with context analysis. Category and Confidence may
// have been upgraded by context flags.
type Assessment struct {
	Category   string
	Confidence float64
	Flagged    bool
	Context    models.ContextAnalysis
}

// AssessMessage classifies the redacted message and folds in conversation
// context. Context findings upgrade the verdict: escalation forces a flag and
// defaults the category to medical, bypass attempts and persistent topics
// force a flag and raise the keyword confidence floor.
func AssessMessage(history []models.ConversationTurn, redacted string) Assessment {
	cls := Classify(redacted)

	conf := 0.0
	if cls.Flagged() {
		conf = cls.Confidence
	}
	ctx := AnalyzeContext(history, redacted, cls.Category, conf)

	a := Assessment{
		Category:   cls.Category,
		Confidence: cls.Confidence,
		Flagged:    cls.Flagged(),
		Context:    ctx,
	}

	if ctx.RiskEscalation {
		a.Flagged = true
		if a.Category == "" {
			a.Category = CategoryMedical
		}
		if a.Confidence < 0.7 {
			a.Confidence = 0.7
		}
	}
	if ctx.FilterBypassAttempt {
		a.Flagged = true
		if a.Confidence < 0.6 {
			a.Confidence = 0.6
		}
	}
	if ctx.PersistentSensitiveTopic {
		a.Flagged = true
		if a.Confidence < 0.65 {
			a.Confidence = 0.65
		}
	}

	// Crisis content is never left unflagged.
	if a.Category == CategoryCrisis {
		a.Flagged = true
	}

	return a
}

// Verdict is the final post-generation decision for one exchange.
type Verdict struct {
	Assessment

	Score             ConfidenceScore
	ConfidenceFlagged bool
	ContextFlagged    bool
	FinalFlagged      bool
	Priority          Priority
	ModeratorSummary  string
}

// Finalize combines the pre-generation assessment with the scored response
// for the redacted message. The flag sources are independent and any one of
// them flags the exchange. High cumulative risk (above 0.6) knocks 15 points
// off the confidence score after the threshold comparison, so the penalty
// alone never flips the confidence flag.
func Finalize(a Assessment, score ConfidenceScore, safetyLevel, redacted string) Verdict {
	v := Verdict{Assessment: a, Score: score}

	v.ConfidenceFlagged = score.Score < ThresholdFor(safetyLevel)
	if a.Category == CategoryCrisis {
		v.ConfidenceFlagged = true
	}

	if a.Context.RiskEscalation || a.Context.FilterBypassAttempt || a.Context.PersistentSensitiveTopic {
		v.ContextFlagged = true
		if a.Context.CumulativeRiskScore > 0.6 {
			v.Score.Score -= 15
			if v.Score.Score < 0 {
				v.Score.Score = 0
			}
		}
	}

	v.FinalFlagged = a.Flagged || v.ConfidenceFlagged || v.ContextFlagged
	if a.Category == CategoryCrisis {
		v.FinalFlagged = true
	}

	if v.FinalFlagged {
		v.Priority = ResolvePriority(a.Category, a.Confidence, redacted, v.Score.Score)
	}

	if v.Score.Score < 30 {
		v.Score.Reasons = append(v.Score.Reasons, "AI is uncertain about this response")
	}

	v.ModeratorSummary = moderatorSummary(v, redacted)
	return v
}

// DisplayCategory maps an internal category to its moderator-facing name.
func DisplayCategory(category string) string {
	switch category {
	case CategoryMedical:
		return "Medical"
	case CategoryFinancial:
		return "Financial"
	case CategoryLegal:
		return "Legal"
	case CategoryCrisis:
		return "Crisis"
	case "":
		return "Low Confidence"
	default:
		return category
	}
}

// moderatorSummary builds the one line summary shown in the review queue:
// the flag sources joined with a truncated preview of the redacted message.
func moderatorSummary(v Verdict, redacted string) string {
	if !v.FinalFlagged {
		return "No safety concerns detected"
	}

	var reasons []string
	if v.Assessment.Flagged {
		reasons = append(reasons, strings.ToLower(DisplayCategory(v.Category))+" content")
	}
	if v.ConfidenceFlagged {
		reasons = append(reasons, fmt.Sprintf("low confidence (%.0f%%)", v.Score.Score))
	}
	if v.ContextFlagged {
		if v.Context.RiskEscalation {
			reasons = append(reasons, "risk escalation")
		}
		if v.Context.FilterBypassAttempt {
			reasons = append(reasons, "possible filter bypass")
		}
		if v.Context.PersistentSensitiveTopic {
			reasons = append(reasons, "persistent sensitive queries")
		}
	}

	preview := redacted
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}
	if len(reasons) == 0 {
		return "Flagged: " + preview
	}
	return fmt.Sprintf("Flagged for: %s. Message: %s", strings.Join(reasons, ", "), preview)
}

// GuardrailExplanation is the transparency text attached to a response when
// the user opted in. Empty when nothing triggered.
func GuardrailExplanation(v Verdict) string {
	if v.Category != "" {
		return fmt.Sprintf("Guardrail triggered: %s content detected. This query was flagged for review to ensure appropriate handling.",
			DisplayCategory(v.Category))
	}
	if v.ConfidenceFlagged {
		return fmt.Sprintf("Guardrail triggered: Low confidence response (%.0f%%). This response may be inaccurate or uncertain.",
			v.Score.Score)
	}
	return ""
}
