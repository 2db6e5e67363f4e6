package responder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetychat/internal/safety"
)

func TestLocalCrisisContentGetsResources(t *testing.T) {
	l := NewLocal()

	reply, err := l.Generate(context.Background(), "I want to die", safety.CategoryCrisis, nil)

	require.NoError(t, err)
	assert.Equal(t, CrisisResponse, reply)
	assert.Contains(t, reply, "988")
	assert.Contains(t, reply, "741741")
}

func TestLocalCrisisKeywordsWithoutCategory(t *testing.T) {
	l := NewLocal()

	reply, err := l.Generate(context.Background(), "sometimes I think about suicide", "", nil)

	require.NoError(t, err)
	assert.Equal(t, CrisisResponse, reply)
}

func TestLocalPIIEducationTakesPrecedence(t *testing.T) {
	l := NewLocal()

	reply, err := l.Generate(context.Background(), "my email was [REDACTED]", "", []string{"email"})

	require.NoError(t, err)
	assert.Contains(t, reply, "I've detected personal information in your message")
}

func TestLocalCategoryDisclaimers(t *testing.T) {
	l := NewLocal()

	medical, err := l.Generate(context.Background(), "I have a fever", safety.CategoryMedical, nil)
	require.NoError(t, err)
	assert.Contains(t, medical, "medical")

	financial, err := l.Generate(context.Background(), "Should I invest?", safety.CategoryFinancial, nil)
	require.NoError(t, err)
	assert.Contains(t, financial, "financial")

	legal, err := l.Generate(context.Background(), "Can I sue?", safety.CategoryLegal, nil)
	require.NoError(t, err)
	assert.Contains(t, legal, "legal")
}

func TestLocalSimpleFacts(t *testing.T) {
	l := NewLocal()

	math, err := l.Generate(context.Background(), "What is 2+2?", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "2 + 2 equals 4. This is a basic mathematical fact with 100% certainty.", math)

	capital, err := l.Generate(context.Background(), "What is the capital of France?", "", nil)
	require.NoError(t, err)
	assert.Contains(t, capital, "Paris is the capital of France")
}

func TestLocalDefaultEchoesQuestion(t *testing.T) {
	l := NewLocal()

	reply, err := l.Generate(context.Background(), "Tell me a story about dragons", "", nil)

	require.NoError(t, err)
	assert.Contains(t, reply, `"Tell me a story about dragons"`)
}
