package safety

import (
	"strings"

	"safetychat/internal/models"
)

// BuildLearningAnalysis produces the educational breakdown returned when
// learning mode is on: which guardrails fired, how each scoring factor moved
// the confidence, and tips appropriate to the category. Impact percentages
// are illustrative labels for the UI, not the picture of the real arithmetic.
func BuildLearningAnalysis(redacted string, v Verdict, piiTypes []string) models.LearningAnalysis {
	analysis := models.LearningAnalysis{
		RiskCategory:        "Safe",
		TriggeredGuardrails: []string{},
		ConfidenceBreakdown: []models.ConfidenceFactor{},
		SafetyTips:          []string{},
	}
	if v.Category != "" && v.Category != CategorySafe {
		analysis.RiskCategory = capitalize(v.Category)
	}

	lower := strings.ToLower(redacted)

	if v.Category != "" && v.Category != CategorySafe {
		guardrail := v.Category + "_content_detection"
		switch v.Category {
		case CategoryMedical:
			guardrail = "medical_advice_detection"
		case CategoryFinancial:
			guardrail = "financial_advice_detection"
		case CategoryLegal:
			guardrail = "legal_advice_detection"
		case CategoryCrisis:
			guardrail = "crisis_intervention_detection"
		}
		analysis.TriggeredGuardrails = append(analysis.TriggeredGuardrails, guardrail)
	}

	if len(piiTypes) > 0 {
		analysis.TriggeredGuardrails = append(analysis.TriggeredGuardrails, "pii_detection")
		analysis.SafetyTips = append(analysis.SafetyTips,
			"Personal information was automatically redacted for your privacy")
	}

	if v.Score.Score < 50 {
		analysis.TriggeredGuardrails = append(analysis.TriggeredGuardrails, "low_confidence_auto_flag")
	}

	for _, reason := range v.Score.Reasons {
		analysis.ConfidenceBreakdown = append(analysis.ConfidenceBreakdown,
			models.ConfidenceFactor{Factor: reason, Impact: impactLabel(reason)})
	}

	if v.Category == CategoryMedical || v.Category == CategoryFinancial || v.Category == CategoryLegal {
		analysis.ConfidenceBreakdown = append(analysis.ConfidenceBreakdown,
			models.ConfidenceFactor{Factor: "Topic risk", Impact: "-40%"})
	}
	if strings.Contains(lower, "should i") || strings.Contains(lower, "advice") {
		analysis.ConfidenceBreakdown = append(analysis.ConfidenceBreakdown,
			models.ConfidenceFactor{Factor: "Specificity", Impact: "-20%"})
	}

	switch {
	case v.Category == CategoryMedical:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"AI cannot diagnose medical conditions",
			"Consult a healthcare professional for medical advice")
		analysis.HumanReviewReason = "Medical queries require professional oversight"
	case v.Category == CategoryFinancial:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"AI cannot access your financial situation",
			"Financial decisions should be made with professional guidance")
		analysis.HumanReviewReason = "Specific financial advice requires human oversight"
	case v.Category == CategoryLegal:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"AI cannot provide legal representation",
			"Legal matters require consultation with a qualified attorney")
		analysis.HumanReviewReason = "Legal queries require professional legal review"
	case v.Category == CategoryCrisis:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"If you're in crisis, please contact emergency services or a crisis hotline")
		analysis.HumanReviewReason = "Crisis content requires immediate human intervention"
	case v.Score.Score >= 80:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"This response has high confidence based on verifiable facts")
	case v.Score.Score >= 50:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"This response has moderate confidence - verify important information")
	default:
		analysis.SafetyTips = append(analysis.SafetyTips,
			"This response has low confidence - exercise caution and verify information")
	}

	if len(analysis.SafetyTips) == 0 {
		analysis.SafetyTips = append(analysis.SafetyTips,
			"AI responses are based on training data and may not reflect current information")
	}

	analysis.ContextAnalysis = &v.Context
	return analysis
}

func impactLabel(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "uncertain") || strings.Contains(lower, "uncertainty"):
		return "-20%"
	case strings.Contains(lower, "personal advice"):
		return "-40%"
	case strings.Contains(lower, "future") || strings.Contains(lower, "prediction"):
		return "-30%"
	case strings.Contains(lower, "sensitive category"):
		return "-25%"
	case strings.Contains(lower, "factual") || strings.Contains(lower, "verifiable"):
		return "+15%"
	case strings.Contains(lower, "established") || strings.Contains(lower, "evidence"):
		return "+10%"
	case strings.Contains(lower, "mathematical"):
		return "+25%"
	default:
		return "0%"
	}
}
