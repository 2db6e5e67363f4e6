// Package safety implements the moderation pipeline: PII redaction, keyword
// classification, response confidence scoring, conversation context analysis,
// priority resolution, and the final flag decision. Every function here is a
// pure function of its inputs so the pipeline is reproducible and safe to run
// from concurrent request contexts.
package safety

// Categories recognized by the classifier. An empty category means no
// sensitive content was detected; "safe" is the storage/display form of that.
const (
	CategoryMedical   = "medical"
	CategoryFinancial = "financial"
	CategoryLegal     = "legal"
	CategoryCrisis    = "crisis"
	CategorySafe      = "safe"
)

// CrisisKeywords is the canonical crisis lexicon. Every component that cares
// about crisis content (classifier, priority resolver, responder) consults
// this single list.
var CrisisKeywords = []string{
	"suicide",
	"suicidal",
	"depressed",
	"kill myself",
	"end my life",
	"hopeless",
	"i want to die",
	"want to die",
	"don't want to live",
	"better off dead",
	"going to kill",
	"end it all",
	"no reason to live",
	"hurt myself",
	"self harm",
	"cutting myself",
	"want to end",
	"not worth living",
}

// categoryKeywords are the trigger lexicons for the non-crisis categories.
// Matching is case-insensitive substring search.
var categoryKeywords = map[string][]string{
	CategoryMedical:   {"pain", "hurt", "fever", "doctor", "medicine", "sick", "headache"},
	CategoryFinancial: {"invest", "money", "bitcoin", "stock", "credit card", "loan"},
	CategoryLegal:     {"lawyer", "legal", "sue", "contract", "illegal"},
}

// categoryOrder fixes the tie-break when several non-crisis categories match:
// the first one in this order wins. Crisis is checked before all of these and
// takes absolute priority.
var categoryOrder = []string{CategoryMedical, CategoryFinancial, CategoryLegal}

// SensitiveCategories lists every category that counts as sensitive for
// context analysis and confidence scoring.
var SensitiveCategories = []string{CategoryMedical, CategoryFinancial, CategoryLegal, CategoryCrisis}

// medicalSeverity is the three-tier symptom lexicon used for escalation
// detection. Tiers are ordered low to high; the highest matching tier wins.
var medicalSeverity = []struct {
	level    string
	keywords []string
}{
	{"low", []string{"hurt", "ache", "pain", "sore", "uncomfortable"}},
	{"medium", []string{"severe", "sharp", "intense", "persistent", "worsening"}},
	{"high", []string{"chest pain", "difficulty breathing", "emergency", "urgent", "can't breathe", "heart", "stroke"}},
}

// financialActionTerms are the action-oriented investment verbs that mark a
// shift from general money talk to a concrete advice request.
var financialActionTerms = []string{"invest", "buy", "sell", "trade", "strategy"}

// bypassKeywords are the secondary, non-triggering lexicons used to spot
// rephrasing around the primary trigger keywords.
var bypassKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryMedical, []string{"health", "body", "feel", "symptom", "doctor", "treatment"}},
	{CategoryFinancial, []string{"money", "cash", "wealth", "income", "profit", "return"}},
	{CategoryLegal, []string{"law", "right", "legal", "court", "sue", "attorney"}},
}

// Priority resolver lexicons.
var (
	illegalIntentKeywords = []string{"how to", "help me", "can you help", "instructions", "guide", "tutorial"}
	toxicPatterns         = []string{"hate", "kill you", "destroy", "attack", "violence", "threat", "harm you"}
	highRiskFinancial     = []string{"invest all", "borrow money", "take loan", "credit card debt", "gambling"}
	controversialKeywords = []string{"holocaust", "genocide", "war crimes", "atrocity", "massacre"}
	politicalKeywords     = []string{"president", "election", "political party", "voting", "campaign", "politician"}
	religiousKeywords     = []string{"god", "religion", "faith", "prayer", "church", "temple", "mosque", "bible", "quran"}
)

// Confidence scorer pattern families (see confidence.go for the precedence
// contract between them).
var (
	factualPatterns = []string{
		"what is", "what are", "what was", "what were",
		"who is", "who was", "who invented", "who created",
		"where is", "where was", "where did",
		"when did", "when was", "when is",
		"how many", "how much", "how does", "how do",
		"define", "definition of", "explain", "describe",
		"capital of", "invented", "discovered", "created",
	}
	subjectivePatterns = []string{
		"should i", "what should i", "do you think", "do you recommend",
		"best", "worst", "better", "prefer", "favorite",
		"opinion", "think about", "believe", "feel", "like",
	}
	personalAdvicePatterns = []string{
		"should i", "what should i do", "what should i", "advice",
		"recommend", "suggest", "tell me what to", "help me decide",
	}
	futurePatterns = []string{
		"will", "going to", "predict", "forecast", "future",
		"tomorrow", "next year", "will happen", "will it",
	}
	historicalPatterns = []string{
		"invented", "discovered", "created", "founded", "established",
		"who invented", "who discovered", "when was", "when did",
	}
	scientificPatterns = []string{
		"science", "physics", "chemistry", "biology", "math", "mathematics",
		"photosynthesis", "gravity", "temperature", "boils at",
		"formula", "equation", "theory", "law of",
	}
	mathOperators = []string{"+", "-", "*", "×", "÷", "/", "times", "plus", "minus", "equals"}

	uncertainLanguage = []string{"maybe", "perhaps", "might", "could", "possibly", "uncertain", "unclear", "not sure"}
	factualIndicators = []string{"fact", "established", "research", "study", "data", "evidence", "scientific", "verifiable"}
	directAnswerWords = []string{"equals", "is", "was", "are", "were"}
)
