package safety

import "strings"

// Classification is the outcome of the keyword filter for a single message.
// Category is empty when nothing sensitive matched; Confidence is then 0.
type Classification struct {
	Category   string
	Confidence float64
}

// Flagged reports whether the message matched any sensitive category.
func (c Classification) Flagged() bool {
	return c.Category != ""
}

// Classify runs the keyword filter over a message. Crisis keywords are checked
// first and override every other category. Non-crisis categories are checked
// in a fixed order so a message matching several always resolves the same way.
//
// Crisis confidence is deliberately low, 0.10 plus 0.05 per hit capped at
// 0.30, so crisis content always lands below every flag threshold. Other
// categories score 0.5 plus 0.15 per hit capped at 0.95.
func Classify(message string) Classification {
	lower := strings.ToLower(message)

	crisisHits := countHits(lower, CrisisKeywords)
	if crisisHits > 0 {
		conf := 0.10 + 0.05*float64(crisisHits)
		if conf > 0.30 {
			conf = 0.30
		}
		return Classification{Category: CategoryCrisis, Confidence: conf}
	}

	for _, cat := range categoryOrder {
		hits := countHits(lower, categoryKeywords[cat])
		if hits == 0 {
			continue
		}
		conf := 0.5 + 0.15*float64(hits)
		if conf > 0.95 {
			conf = 0.95
		}
		return Classification{Category: cat, Confidence: conf}
	}

	return Classification{}
}

// ContainsCrisis reports whether the text matches the crisis lexicon.
func ContainsCrisis(text string) bool {
	return countHits(strings.ToLower(text), CrisisKeywords) > 0
}

// matchesCategory reports whether text contains any primary keyword of the
// given non-crisis category.
func matchesCategory(text, category string) bool {
	return countHits(text, categoryKeywords[category]) > 0
}

func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
