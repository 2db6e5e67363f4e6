package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreConfidenceSimpleMath(t *testing.T) {
	score := ScoreConfidence("What is 2+2?", "2 + 2 equals 4. This is a basic mathematical fact with 100% certainty.", "")

	assert.Equal(t, 100.0, score.Score)
	assert.Equal(t, LevelHigh, score.Level)
	assert.Contains(t, score.Reasons, "Query asks for verifiable mathematical calculation")
}

func TestScoreConfidenceGeographicalFact(t *testing.T) {
	score := ScoreConfidence("What is the capital of France?", "Paris is the capital of France.", "")

	assert.Equal(t, 100.0, score.Score)
	assert.Equal(t, LevelHigh, score.Level)
	assert.Contains(t, score.Reasons, "Query asks for verifiable geographical fact")
}

func TestScoreConfidenceHistoricalFact(t *testing.T) {
	score := ScoreConfidence("Who invented the telephone?", "Alexander Graham Bell patented the telephone in 1876.", "")

	assert.Equal(t, LevelHigh, score.Level)
	assert.Contains(t, score.Reasons, "Query asks for verifiable historical fact")
}

func TestScoreConfidenceSubjectiveComparison(t *testing.T) {
	score := ScoreConfidence("Best programming language?", "That depends on the use case.", "")

	assert.Equal(t, 60.0, score.Score)
	assert.Equal(t, LevelMedium, score.Level)
	assert.Contains(t, score.Reasons, "Query requests subjective comparison or opinion")
}

func TestScoreConfidencePersonalFinancialAdvice(t *testing.T) {
	score := ScoreConfidence("Should I buy a house?", "That is a personal decision.", "")

	assert.Equal(t, 30.0, score.Score)
	assert.Equal(t, LevelLow, score.Level)
	assert.Contains(t, score.Reasons, "Query requests personal financial advice")
}

func TestScoreConfidenceFuturePrediction(t *testing.T) {
	score := ScoreConfidence("Will AI take all jobs?", "The future of work depends on many factors.", "")

	assert.Equal(t, 40.0, score.Score)
	assert.Equal(t, LevelLow, score.Level)
	assert.Contains(t, score.Reasons, "Query involves future predictions with uncertainty")
}

func TestScoreConfidenceCrisisCategory(t *testing.T) {
	score := ScoreConfidence("I want to die", "Help is available. You are not alone.", CategoryCrisis)

	assert.Equal(t, 15.0, score.Score)
	assert.Equal(t, LevelLow, score.Level)
}

func TestScoreConfidenceSensitiveCategory(t *testing.T) {
	score := ScoreConfidence("My head hurts every morning", "You may want to see a doctor.", CategoryMedical)

	assert.Equal(t, LevelLow, score.Level)
	assert.Contains(t, score.Reasons, "Topic involves medical content requiring professional expertise")
}

func TestScoreConfidenceWeather(t *testing.T) {
	score := ScoreConfidence("Weather today?", "I cannot check live conditions.", "")

	assert.Equal(t, 65.0, score.Score)
	assert.Equal(t, LevelMedium, score.Level)
}

func TestScoreConfidenceHedgedResponseLowersScore(t *testing.T) {
	score := ScoreConfidence("What is the capital of France?", "Maybe Paris.", "")

	// Base 100 for a geographical fact, minus 8 for one hedge word.
	assert.Equal(t, 92.0, score.Score)
	assert.Contains(t, score.Reasons, "Response contains uncertain language")
}

func TestScoreConfidenceClampedAtZero(t *testing.T) {
	score := ScoreConfidence("Should I do it?", "Maybe, perhaps, it might work, could be, possibly, but it is uncertain and unclear, not sure.", CategoryMedical)

	assert.GreaterOrEqual(t, score.Score, 0.0)
	assert.Equal(t, LevelLow, score.Level)
}
