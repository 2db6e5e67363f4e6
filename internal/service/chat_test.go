package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"safetychat/internal/config"
	"safetychat/internal/models"
	"safetychat/internal/responder"
	"safetychat/internal/safety"
)

type fakeConversations struct {
	bySession map[string]*models.Conversation
	nextID    int64
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{bySession: make(map[string]*models.Conversation), nextID: 1}
}

func (f *fakeConversations) GetOrCreateConversation(sessionID string) (*models.Conversation, error) {
	if conv, ok := f.bySession[sessionID]; ok {
		return conv, nil
	}
	conv := &models.Conversation{ID: f.nextID, SessionID: sessionID, StartedAt: time.Now().UTC()}
	f.nextID++
	f.bySession[sessionID] = conv
	return conv, nil
}

func (f *fakeConversations) GetConversationBySession(sessionID string) (*models.Conversation, error) {
	if conv, ok := f.bySession[sessionID]; ok {
		return conv, nil
	}
	return nil, sql.ErrNoRows
}

func newChatFixture() (*ChatService, *fakeMessages) {
	store := newFakeStore()
	messages := &fakeMessages{store: store}
	cfg := &config.Config{}
	cfg.Generator.TimeoutSeconds = 5
	settings := NewSettingsStore(models.Settings{
		SafetyLevel:   "moderate",
		DataLogging:   true,
		ResponseSpeed: "balanced",
	})
	svc := NewChatService(newFakeConversations(), messages, responder.NewLocal(), nil, nil, settings, cfg, zap.NewNop())
	return svc, messages
}

func TestProcessRejectsEmptyMessage(t *testing.T) {
	svc, _ := newChatFixture()

	_, err := svc.Process(context.Background(), &models.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestProcessSafeMessage(t *testing.T) {
	svc, messages := newChatFixture()

	resp, err := svc.Process(context.Background(), &models.ChatRequest{Message: "Hello there"})
	require.NoError(t, err)

	assert.Equal(t, "safe", resp.Category)
	assert.False(t, resp.Flagged)
	assert.Equal(t, 1.0, resp.Confidence)
	assert.NotEmpty(t, resp.Response)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "No safety concerns detected", resp.MessageForModerator)

	assert.Len(t, messages.store.messages, 2)
	assert.Equal(t, "user", messages.store.messages[0].Role)
	assert.Equal(t, "assistant", messages.store.messages[1].Role)
	assert.False(t, messages.store.messages[0].Flagged)
}

func TestProcessCrisisMessage(t *testing.T) {
	svc, messages := newChatFixture()

	resp, err := svc.Process(context.Background(), &models.ChatRequest{Message: "I want to die"})
	require.NoError(t, err)

	assert.Equal(t, "crisis", resp.Category)
	assert.True(t, resp.Flagged)
	assert.Equal(t, responder.CrisisResponse, resp.Response)
	assert.InDelta(t, 0.20, resp.Confidence, 1e-9)
	assert.Equal(t, 15.0, resp.ConfidenceScore)
	assert.Contains(t, resp.MessageForModerator, "Flagged for:")

	require.Len(t, messages.store.messages, 2)
	aiMsg := messages.store.messages[1]
	assert.True(t, aiMsg.Flagged)
	require.NotNil(t, aiMsg.PriorityLevel)
	assert.Equal(t, safety.PriorityCritical, *aiMsg.PriorityLevel)
	require.NotNil(t, aiMsg.TargetResponseTime)
	assert.Equal(t, 0, *aiMsg.TargetResponseTime)
}

func TestProcessRedactsPII(t *testing.T) {
	svc, messages := newChatFixture()

	resp, err := svc.Process(context.Background(), &models.ChatRequest{Message: "My SSN is 123-45-6789"})
	require.NoError(t, err)

	assert.Equal(t, safety.PIIWarning, resp.PIIWarning)
	assert.Contains(t, resp.Response, "I've detected personal information")

	userMsg := messages.store.messages[0]
	assert.NotContains(t, userMsg.Content, "123-45-6789")
	assert.Contains(t, userMsg.Content, safety.RedactionToken)
	assert.True(t, userMsg.PIIDetected)
	assert.Equal(t, []string{"ssn"}, []string(userMsg.PIITypes))
}

func TestProcessKeepsSessionAcrossMessages(t *testing.T) {
	svc, messages := newChatFixture()

	first, err := svc.Process(context.Background(), &models.ChatRequest{Message: "Hello", SessionID: "session-1"})
	require.NoError(t, err)
	assert.Equal(t, "session-1", first.SessionID)

	_, err = svc.Process(context.Background(), &models.ChatRequest{Message: "How are you?", SessionID: "session-1"})
	require.NoError(t, err)

	require.Len(t, messages.store.messages, 4)
	for _, msg := range messages.store.messages {
		assert.Equal(t, messages.store.messages[0].ConversationID, msg.ConversationID)
	}
}

func TestHistoryReturnsStoredTurns(t *testing.T) {
	svc, _ := newChatFixture()

	_, err := svc.Process(context.Background(), &models.ChatRequest{Message: "Hello", SessionID: "session-1"})
	require.NoError(t, err)

	turns, err := svc.History("session-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)

	_, err = svc.History("unknown-session")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestProcessLearningMode(t *testing.T) {
	svc, _ := newChatFixture()

	resp, err := svc.Process(context.Background(), &models.ChatRequest{
		Message:      "I have a fever and pain",
		LearningMode: true,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.LearningAnalysis)
	assert.Equal(t, "Medical", resp.LearningAnalysis.RiskCategory)
	assert.Contains(t, resp.LearningAnalysis.TriggeredGuardrails, "medical_advice_detection")
}

func TestProcessTransparencyExplanation(t *testing.T) {
	svc, _ := newChatFixture()

	resp, err := svc.Process(context.Background(), &models.ChatRequest{
		Message: "I have a fever and pain",
		Settings: &models.Settings{
			SafetyLevel:  "moderate",
			Transparency: true,
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Flagged)
	assert.Contains(t, resp.GuardrailExplanation, "Medical")
}

func TestProcessRequestSettingsOverrideDefaults(t *testing.T) {
	svc, _ := newChatFixture()

	// Scores 30: flagged under strict (70), unflagged under lenient (30).
	resp, err := svc.Process(context.Background(), &models.ChatRequest{
		Message:  "Should I buy a house?",
		Settings: &models.Settings{SafetyLevel: "lenient"},
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, resp.ConfidenceScore)
	assert.False(t, resp.Flagged)

	resp, err = svc.Process(context.Background(), &models.ChatRequest{
		Message:  "Should I buy a house?",
		Settings: &models.Settings{SafetyLevel: "strict"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Flagged)
}
