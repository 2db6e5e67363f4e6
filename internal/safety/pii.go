package safety

import (
	"regexp"
	"strings"
)

// RedactionToken replaces every detected PII span.
const RedactionToken = "[REDACTED]"

// PIIWarning is surfaced to the user whenever at least one span was redacted.
const PIIWarning = "I've removed personal information for your safety."

var (
	creditCardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
		regexp.MustCompile(`\b\d{4}[-\s]?\d{6}[-\s]?\d{5}\b`),
	}
	ssnPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// A bare 10-digit run is only treated as a phone number when preceded by
	// phone-ish context, otherwise quantities like populations would be eaten.
	phoneContextPattern = regexp.MustCompile(`(?i)\b(?:phone|call|text|contact|number|tel|mobile)\s*[:\-]?\s*\d{10}\b`)
	barePhonePattern    = regexp.MustCompile(`\b\d{10}\b`)
	phonePatterns       = []*regexp.Regexp{
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`),
		regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
		regexp.MustCompile(`\d{3}\.\d{3}\.\d{4}`),
		regexp.MustCompile(`\+\d{1,3}\s*\d{3}\s*\d{3}\s*\d{4}`),
		regexp.MustCompile(`\d{3}\s+\d{3}\s+\d{4}`),
	}

	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	addressPattern = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Way|Circle|Cir)\b`)
)

// Redaction holds the result of a PII pass over one message.
type Redaction struct {
	Text     string
	Detected bool
	Types    []string
}

// Redact scans the message for credit card numbers, SSNs, phone numbers,
// email addresses, and street addresses, replacing each detected span with
// RedactionToken. Types lists the detected kinds in detection order, each at
// most once. Redaction is idempotent: the token itself matches no pattern.
func Redact(message string) Redaction {
	text := message
	var types []string

	// Credit cards first so the 13-19 digit gate sees the raw digit runs
	// before any phone pattern can consume them. Each pattern family redacts
	// its first valid run.
	cardDetected := false
	for _, pat := range creditCardPatterns {
		if loc := findValidCardSpan(pat, text); loc != nil {
			text = text[:loc[0]] + RedactionToken + text[loc[1]:]
			cardDetected = true
		}
	}
	if cardDetected {
		types = append(types, "credit_card")
	}

	if ssnPattern.MatchString(text) {
		text = ssnPattern.ReplaceAllString(text, RedactionToken)
		types = append(types, "ssn")
	}

	// The context-gated bare rule and the formatted patterns are independent;
	// a message can carry both kinds of number.
	phoneDetected := false
	if phoneContextPattern.MatchString(text) {
		text = barePhonePattern.ReplaceAllString(text, RedactionToken)
		phoneDetected = true
	}
	for _, pat := range phonePatterns {
		if pat.MatchString(text) {
			text = pat.ReplaceAllString(text, RedactionToken)
			phoneDetected = true
			break
		}
	}
	if phoneDetected {
		types = append(types, "phone")
	}

	if emailPattern.MatchString(text) {
		text = emailPattern.ReplaceAllString(text, RedactionToken)
		types = append(types, "email")
	}

	if addressPattern.MatchString(text) {
		text = addressPattern.ReplaceAllString(text, RedactionToken)
		types = append(types, "address")
	}

	return Redaction{Text: text, Detected: len(types) > 0, Types: types}
}

// findValidCardSpan returns the span of the first match whose digit count
// falls in the 13-19 range card numbers actually use, or nil.
func findValidCardSpan(pat *regexp.Regexp, text string) []int {
	for _, loc := range pat.FindAllStringIndex(text, -1) {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, text[loc[0]:loc[1]])
		if len(digits) >= 13 && len(digits) <= 19 {
			return loc
		}
	}
	return nil
}
