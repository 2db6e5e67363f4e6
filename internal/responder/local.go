// Package responder produces the assistant reply for a screened message.
// A remote generator can be configured; the local responder is the fallback
// and the default when no generator is reachable.
package responder

import (
	"context"
	"fmt"
	"strings"

	"safetychat/internal/safety"
)

// CrisisResponse is returned for any crisis content. It is produced locally
// and never delegated to a remote generator.
const CrisisResponse = "I'm concerned about what you've shared. If you're in immediate danger, please call emergency services (911) or your local crisis hotline right away.\n\n" +
	"**Crisis Resources:**\n" +
	"• National Suicide Prevention Lifeline: 988 (24/7)\n" +
	"• Crisis Text Line: Text HOME to 741741\n" +
	"• International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/\n\n" +
	"This message has been flagged for immediate human review. A trained professional will reach out to provide support. You are not alone, and help is available."

// piiEducationResponse is returned verbatim whenever PII was redacted.
const piiEducationResponse = "I've detected personal information in your message. For privacy protection, I've redacted it. Remember: AI systems should never ask for or store personal details like emails, passwords, or identification numbers."

// Responder generates a reply for the redacted user message. Category is the
// safety classification and piiTypes the redacted PII kinds, both of which
// steer the reply.
type Responder interface {
	Generate(ctx context.Context, message, category string, piiTypes []string) (string, error)
}

// Local is the deterministic built-in responder. It never fails and ignores
// the context.
type Local struct{}

// NewLocal returns the built-in responder.
func NewLocal() *Local {
	return &Local{}
}

// Generate walks a fixed decision tree: PII education first, then crisis
// resources, then category disclaimers, then a set of canned topical and
// factual answers, then a generic reply.
func (l *Local) Generate(_ context.Context, message, category string, piiTypes []string) (string, error) {
	lower := strings.ToLower(message)

	if len(piiTypes) > 0 {
		return piiEducationResponse, nil
	}

	if safety.ContainsCrisis(message) || category == safety.CategoryCrisis {
		return CrisisResponse, nil
	}

	switch category {
	case safety.CategoryMedical:
		return "I understand you mentioned medical-related topics. In a production AI system, medical queries would typically be flagged for review to ensure accurate, safe information. This educational system demonstrates how such content is identified and would be handled with appropriate guardrails and potentially human medical professional oversight.", nil
	case safety.CategoryFinancial:
		return "I notice financial-related keywords in your message. Financial advice requires careful consideration and often regulatory compliance. In production systems, such queries would be flagged for review to ensure responsible handling. This demonstrates how AI safety systems identify and manage sensitive financial content.", nil
	case safety.CategoryLegal:
		return "Your message contains legal-related terms. Legal matters often require professional expertise and careful handling. In a production AI system, legal queries would be flagged for review to ensure appropriate responses. This educational system shows how such content is identified for safety oversight.", nil
	}

	switch {
	case strings.Contains(lower, "safety") || strings.Contains(lower, "guardrail"):
		return "Great question! AI safety involves implementing guardrails to ensure AI systems behave responsibly. This includes content filtering, bias detection, and human oversight mechanisms. In this educational system, we're demonstrating how such guardrails can work in practice.", nil
	case strings.Contains(lower, "bias") || strings.Contains(lower, "fair"):
		return "Bias in AI is a critical safety concern. AI systems can perpetuate or amplify biases present in training data. Safety measures include diverse datasets, fairness audits, and continuous monitoring. This is why human-in-the-loop oversight is essential.", nil
	case strings.Contains(lower, "risk") || strings.Contains(lower, "danger"):
		return "AI risks can include misinformation, privacy violations, and unintended harmful outputs. Safety systems use multiple layers: input validation, output filtering, and human review processes. Education about these risks is the first step toward safer AI.", nil
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi") || strings.Contains(lower, "hey"):
		return "Hello! I'm here to help you learn about AI safety. Feel free to ask me about guardrails, bias, risks, or any other AI safety topics. Remember, this is an educational demonstration.", nil

	case strings.Contains(lower, "2+2") || strings.Contains(lower, "2 + 2"):
		return "2 + 2 equals 4. This is a basic mathematical fact with 100% certainty.", nil
	case strings.Contains(lower, "3*3") || strings.Contains(lower, "3 * 3") || strings.Contains(lower, "3 times 3"):
		return "3 times 3 equals 9. This is a basic mathematical fact with 100% certainty.", nil
	case strings.Contains(lower, "10-5") || strings.Contains(lower, "10 - 5"):
		return "10 minus 5 equals 5. This is a basic mathematical fact with 100% certainty.", nil
	case (strings.Contains(lower, "capital") && strings.Contains(lower, "france")) || strings.Contains(lower, "france capital"):
		return "Paris is the capital of France. This is a well-established geographical fact with 100% certainty.", nil
	case (strings.Contains(lower, "capital") && strings.Contains(lower, "japan")) || strings.Contains(lower, "japan capital"):
		return "Tokyo is the capital of Japan. This is a well-established geographical fact with 100% certainty.", nil
	case strings.Contains(lower, "water boils") || strings.Contains(lower, "boiling point of water"):
		return "Water boils at 100 degrees Celsius (212 degrees Fahrenheit) at standard atmospheric pressure. This is a well-established scientific fact with 100% certainty.", nil
	case strings.Contains(lower, "earth orbits") || strings.Contains(lower, "earth revolves around sun"):
		return "Earth orbits the Sun. This is a well-established astronomical fact with 100% certainty.", nil
	case strings.Contains(lower, "photosynthesis") && (strings.Contains(lower, "explain") || strings.Contains(lower, "what is")):
		return "Photosynthesis is the process by which plants convert light energy into chemical energy, using carbon dioxide and water to produce glucose and oxygen. This is a well-documented scientific process that AI systems can explain with high confidence.", nil

	case strings.Contains(lower, "invest") || (strings.Contains(lower, "stock") && strings.Contains(lower, "should")):
		return "I cannot provide specific investment advice, as financial decisions require professional expertise and depend on individual circumstances. In a production AI system, such queries would be flagged for review to ensure responsible handling. This demonstrates how AI safety systems identify and manage sensitive financial content.", nil
	case strings.Contains(lower, "will") && (strings.Contains(lower, "ai") || strings.Contains(lower, "job")):
		return "Predicting the future impact of AI on jobs involves many uncertain factors. While AI will likely change the job market, the exact outcomes depend on various economic, social, and technological developments that are difficult to predict with certainty. This type of speculative question would be flagged for lower confidence in an AI safety system.", nil
	case strings.Contains(lower, "weather"):
		return "I don't have access to real-time weather data, so I cannot provide current weather information. Weather queries require up-to-date data from meteorological services, which would be flagged as medium confidence in an AI safety system.", nil

	case strings.Contains(lower, "what is") || strings.Contains(lower, "explain") || strings.Contains(lower, "define"):
		return fmt.Sprintf("I'd be happy to help with %q. In an AI safety system, I would provide accurate information while being mindful of the confidence level and potential safety concerns. For this educational demonstration, I'm showing how AI systems evaluate queries and provide appropriate responses.", message), nil
	}

	return fmt.Sprintf("I can help with %q. In an AI safety system, responses are evaluated for accuracy and appropriateness. This educational system demonstrates how guardrails help ensure responsible AI behavior.", message), nil
}
