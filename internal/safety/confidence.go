package safety

import (
	"regexp"
	"strings"
)

// Confidence levels reported alongside the numeric score.
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

var simpleMathPattern = regexp.MustCompile(`\d+\s*[+\-*/×÷]\s*\d+`)

// ConfidenceScore holds the scored reliability of a generated response.
type ConfidenceScore struct {
	Score   float64
	Level   string
	Reasons []string
}

// ScoreConfidence rates how reliable the response to a user message is, on a
// 0-100 scale. The base score comes from the shape of the question: verifiable
// facts score high, subjective questions medium, personal advice and sensitive
// categories low. The response text then nudges the base up or down. Category
// is the classifier's verdict for the user message, empty when unflagged.
//
// Levels: 80+ High, 50-79 Medium, below 50 Low.
func ScoreConfidence(userMessage, aiResponse, category string) ConfidenceScore {
	score := 70.0
	var reasons []string
	msg := strings.ToLower(userMessage)
	resp := strings.ToLower(aiResponse)

	isFactual := containsAny(msg, factualPatterns)
	isSubjective := containsAny(msg, subjectivePatterns)
	isAdvice := containsAny(msg, personalAdvicePatterns)
	isFuture := containsAny(msg, futurePatterns)
	isHistorical := containsAny(msg, historicalPatterns)
	isScientific := containsAny(msg, scientificPatterns)

	sensitive := category == CategoryMedical || category == CategoryFinancial ||
		category == CategoryLegal || category == CategoryCrisis

	switch {
	case isFactual && !isSubjective && !isAdvice:
		switch {
		case containsAny(msg, mathOperators):
			if simpleMathPattern.MatchString(msg) {
				score = 100
				reasons = append(reasons, "Query asks for verifiable mathematical calculation")
			} else {
				score = 95
				reasons = append(reasons, "Query asks for mathematical information")
			}
		case strings.Contains(msg, "capital"):
			score = 100
			reasons = append(reasons, "Query asks for verifiable geographical fact")
		case isHistorical:
			score = 95
			reasons = append(reasons, "Query asks for verifiable historical fact")
		case isScientific:
			score = 95
			reasons = append(reasons, "Query asks for verifiable scientific fact")
		case !sensitive:
			score = 90
			reasons = append(reasons, "Query asks for verifiable factual information")
		default:
			score = 50
			reasons = append(reasons, "Query is factual but involves sensitive category")
		}

	case isAdvice:
		switch {
		case category == CategoryMedical || category == CategoryFinancial || category == CategoryLegal:
			score = 25
			reasons = append(reasons, "Query requests personal advice in sensitive category")
		case strings.Contains(msg, "invest") || strings.Contains(msg, "buy") || strings.Contains(msg, "stock"):
			score = 30
			reasons = append(reasons, "Query requests personal financial advice")
		default:
			score = 35
			reasons = append(reasons, "Query requests personal advice")
		}

	case isFuture:
		if strings.Contains(msg, "weather") {
			score = 65
			reasons = append(reasons, "Query about weather requires current data")
		} else {
			score = 40
			reasons = append(reasons, "Query involves future predictions with uncertainty")
		}

	case category == CategoryCrisis:
		score = 15
		reasons = append(reasons, "Crisis content requires immediate human intervention and professional support")

	case category == CategoryMedical || category == CategoryFinancial || category == CategoryLegal:
		score = 30
		reasons = append(reasons, "Topic involves "+category+" content requiring professional expertise")

	case isSubjective:
		if containsAny(msg, []string{"best", "worst", "better", "prefer"}) {
			score = 60
			reasons = append(reasons, "Query requests subjective comparison or opinion")
		} else {
			score = 55
			reasons = append(reasons, "Query requests subjective opinion")
		}

	case strings.Contains(msg, "weather"):
		score = 65
		reasons = append(reasons, "Weather information requires current data")

	case strings.Contains(msg, "today") || strings.Contains(msg, "current") || strings.Contains(msg, "recent"):
		score = 60
		reasons = append(reasons, "Query about current events requires up-to-date information")

	default:
		score = 70
		reasons = append(reasons, "Standard confidence for general query")
	}

	if n := countHits(resp, uncertainLanguage); n > 0 {
		score -= float64(n) * 8
		if score < 0 {
			score = 0
		}
		reasons = append(reasons, "Response contains uncertain language")
	}

	if containsAny(resp, factualIndicators) && score < 80 {
		score += 5
		if score > 100 {
			score = 100
		}
		reasons = append(reasons, "Response references established facts or evidence")
	}

	if isFactual && containsAny(resp, directAnswerWords) && score < 90 {
		score += 3
		if score > 100 {
			score = 100
		}
		reasons = append(reasons, "Response provides direct factual answer")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := LevelLow
	switch {
	case score >= 80:
		level = LevelHigh
	case score >= 50:
		level = LevelMedium
	}

	return ConfidenceScore{Score: score, Level: level, Reasons: reasons}
}
