package safety

import (
	"fmt"
	"strings"

	"safetychat/internal/models"
)

// historyWindow is how many prior turns context analysis looks at. With the
// new message that makes a ten turn window.
const historyWindow = 9

// AnalyzeContext inspects the recent conversation for risk escalation, filter
// bypass attempts, persistence of a sensitive topic, and cumulative risk. The
// history is the stored turn sequence oldest first, newMessage is the already
// redacted incoming text, newCategory and confidence come from the classifier
// (empty and 0 when unflagged).
func AnalyzeContext(history []models.ConversationTurn, newMessage, newCategory string, confidence float64) models.ContextAnalysis {
	analysis := models.ContextAnalysis{
		ContextFlags:    []string{},
		PreviousQueries: []models.ConversationTurn{},
	}
	if len(history) == 0 {
		return analysis
	}

	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	var recentUser []models.ConversationTurn
	for _, turn := range history[start:] {
		if turn.Role == "user" {
			recentUser = append(recentUser, turn)
		}
	}
	analysis.PreviousQueries = recentUser

	lowerNew := strings.ToLower(newMessage)
	newSensitive := isSensitive(newCategory)

	if newSensitive {
		var sameCategory []models.ConversationTurn
		for _, turn := range recentUser {
			if turn.Category == newCategory {
				sameCategory = append(sameCategory, turn)
			}
		}

		if len(sameCategory) > 0 {
			switch newCategory {
			case CategoryMedical:
				var priorParts []string
				for _, turn := range sameCategory {
					priorParts = append(priorParts, strings.ToLower(turn.Content))
				}
				priorContent := strings.Join(priorParts, " ")

				newSeverity, prevSeverity := "low", "low"
				for _, tier := range medicalSeverity {
					if containsAny(lowerNew, tier.keywords) {
						newSeverity = tier.level
					}
					if containsAny(priorContent, tier.keywords) {
						prevSeverity = tier.level
					}
				}

				if (prevSeverity == "low" && (newSeverity == "medium" || newSeverity == "high")) ||
					(prevSeverity == "medium" && newSeverity == "high") {
					analysis.RiskEscalation = true
					analysis.ContextFlags = append(analysis.ContextFlags,
						"Medical risk escalation detected in conversation")
				}

			case CategoryFinancial:
				if containsAny(lowerNew, financialActionTerms) {
					for _, turn := range sameCategory {
						lower := strings.ToLower(turn.Content)
						if strings.Contains(lower, "money") || strings.Contains(lower, "earn") {
							analysis.RiskEscalation = true
							analysis.ContextFlags = append(analysis.ContextFlags,
								"Financial advice escalation detected")
							break
						}
					}
				}
			}
		}

		if len(sameCategory) >= 2 {
			analysis.PersistentSensitiveTopic = true
			analysis.ContextFlags = append(analysis.ContextFlags,
				fmt.Sprintf("Multiple %s queries in conversation", newCategory))
		}
	}

	// A bypass attempt is a message that avoids the trigger keywords of a
	// category the user was previously flagged for while still using related
	// vocabulary.
	if newCategory == "" && len(recentUser) > 0 {
		priorCategories := map[string]bool{}
		for _, turn := range recentUser {
			if isSensitive(turn.Category) {
				priorCategories[turn.Category] = true
			}
		}

		if len(priorCategories) > 0 {
			for _, bp := range bypassKeywords {
				if !priorCategories[bp.category] {
					continue
				}
				if containsAny(lowerNew, bp.keywords) && !matchesCategory(lowerNew, bp.category) {
					analysis.FilterBypassAttempt = true
					analysis.ContextFlags = append(analysis.ContextFlags,
						fmt.Sprintf("Possible filter bypass attempt (%s topic)", bp.category))
					break
				}
			}
		}
	}

	// Cumulative risk is a recency weighted average over the sensitive turns
	// in the window plus the new message. Turns stored without a confidence
	// count as 0.5.
	var riskScores []float64
	for _, turn := range recentUser {
		if isSensitive(turn.Category) {
			if turn.Confidence != nil {
				riskScores = append(riskScores, *turn.Confidence)
			} else {
				riskScores = append(riskScores, 0.5)
			}
		}
	}
	if newSensitive {
		if confidence > 0 {
			riskScores = append(riskScores, confidence)
		} else {
			riskScores = append(riskScores, 0.5)
		}
	}
	if len(riskScores) > 0 {
		var weighted, total float64
		for i, s := range riskScores {
			w := float64(i + 1)
			weighted += s * w
			total += w
		}
		analysis.CumulativeRiskScore = weighted / total
	}

	return analysis
}

func isSensitive(category string) bool {
	for _, c := range SensitiveCategories {
		if category == c {
			return true
		}
	}
	return false
}
