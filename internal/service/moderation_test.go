package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"safetychat/internal/models"
	"safetychat/internal/safety"
)

// fakeStore backs the in-memory repository doubles below. Both fakes share
// one store so a recorded decision immediately hides the message from the
// unreviewed set, as the SQL NOT EXISTS join does.
type fakeStore struct {
	messages   []*models.Message
	decisions  []*models.ModeratorDecision
	nextMsgID  int64
	nextDecSeq int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextMsgID: 1, nextDecSeq: 1}
}

type fakeMessages struct {
	store *fakeStore
}

func (f *fakeMessages) SaveMessage(msg *models.Message) error {
	msg.ID = f.store.nextMsgID
	f.store.nextMsgID++
	f.store.messages = append(f.store.messages, msg)
	return nil
}

func (f *fakeMessages) GetMessageByID(id int64) (*models.Message, error) {
	for _, msg := range f.store.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMessages) GetRecentTurns(conversationID int64, limit int) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	for _, msg := range f.store.messages {
		if msg.ConversationID == conversationID {
			turns = append(turns, models.ConversationTurn{
				Role:       msg.Role,
				Content:    msg.Content,
				Category:   msg.Category,
				Confidence: msg.Confidence,
				Timestamp:  msg.Timestamp,
			})
		}
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (f *fakeMessages) ListUnreviewedFlagged() ([]*models.Message, error) {
	var msgs []*models.Message
	for _, msg := range f.store.messages {
		if msg.Flagged && msg.Role == "user" && !f.decided(msg.ID) {
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

func (f *fakeMessages) GetAssistantReplyAfter(conversationID int64, after time.Time) (*models.Message, error) {
	for _, msg := range f.store.messages {
		if msg.ConversationID == conversationID && msg.Role == "assistant" && msg.Timestamp.After(after) {
			return msg, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMessages) HealthCounts() (flagged, total, lowConfidence int64, err error) {
	for _, msg := range f.store.messages {
		total++
		if msg.Flagged {
			flagged++
		}
		if msg.Role == "assistant" && msg.ConfidenceScore != nil && *msg.ConfidenceScore < 50 {
			lowConfidence++
		}
	}
	return flagged, total, lowConfidence, nil
}

func (f *fakeMessages) decided(messageID int64) bool {
	for _, d := range f.store.decisions {
		if d.MessageID == messageID {
			return true
		}
	}
	return false
}

type fakeDecisions struct {
	store *fakeStore
}

func (f *fakeDecisions) SaveDecision(decision *models.ModeratorDecision) error {
	decision.ID = f.store.nextDecSeq
	f.store.nextDecSeq++
	f.store.decisions = append(f.store.decisions, decision)
	return nil
}

func (f *fakeDecisions) HasDecision(messageID int64) (bool, error) {
	for _, d := range f.store.decisions {
		if d.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDecisions) GetDecisionsByMessage(messageID int64) ([]*models.ModeratorDecision, error) {
	var decisions []*models.ModeratorDecision
	for _, d := range f.store.decisions {
		if d.MessageID == messageID {
			decisions = append(decisions, d)
		}
	}
	return decisions, nil
}

func newModerationFixture() (*ModerationService, *fakeMessages, *fakeDecisions) {
	store := newFakeStore()
	messages := &fakeMessages{store: store}
	decisions := &fakeDecisions{store: store}
	return NewModerationService(messages, decisions, zap.NewNop()), messages, decisions
}

func flaggedPair(t *testing.T, messages *fakeMessages, conversationID int64, at time.Time, content, reply, priority string) *models.Message {
	t.Helper()
	score := 30.0
	userMsg := &models.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        content,
		Category:       "medical",
		Flagged:        true,
		Timestamp:      at,
	}
	require.NoError(t, messages.SaveMessage(userMsg))

	aiMsg := &models.Message{
		ConversationID:  conversationID,
		Role:            "assistant",
		Content:         reply,
		Category:        "medical",
		ConfidenceScore: &score,
		Flagged:         true,
		PriorityLevel:   &priority,
		Timestamp:       at.Add(time.Millisecond),
	}
	require.NoError(t, messages.SaveMessage(aiMsg))
	return userMsg
}

func TestQueueOrdersByPriorityThenNewest(t *testing.T) {
	svc, messages, _ := newModerationFixture()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	flaggedPair(t, messages, 1, base, "financial question", "financial answer", safety.PriorityMedium)
	flaggedPair(t, messages, 2, base.Add(time.Minute), "crisis message", "crisis answer", safety.PriorityCritical)
	flaggedPair(t, messages, 3, base.Add(2*time.Minute), "medical question", "medical answer", safety.PriorityHigh)
	flaggedPair(t, messages, 4, base.Add(-time.Hour), "older crisis", "older answer", safety.PriorityCritical)

	items, err := svc.Queue()
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "crisis message", items[0].UserMessage)
	assert.Equal(t, "older crisis", items[1].UserMessage)
	assert.Equal(t, "medical question", items[2].UserMessage)
	assert.Equal(t, "financial question", items[3].UserMessage)
}

func TestQueueJoinsAssistantReply(t *testing.T) {
	svc, messages, _ := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	userMsg := flaggedPair(t, messages, 1, at, "I have chest pain", "Please see a doctor.", safety.PriorityHigh)

	items, err := svc.Queue()
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, userMsg.ID, item.ID)
	assert.Equal(t, "I have chest pain", item.UserMessage)
	assert.Equal(t, "Please see a doctor.", item.AIResponse)
	require.NotNil(t, item.ConfidenceScore)
	assert.Equal(t, 30.0, *item.ConfidenceScore)
	require.NotNil(t, item.ConfidenceLevel)
	assert.Equal(t, safety.LevelLow, *item.ConfidenceLevel)
	require.NotNil(t, item.PriorityLevel)
	assert.Equal(t, safety.PriorityHigh, *item.PriorityLevel)
}

func TestQueueWithoutAssistantReply(t *testing.T) {
	svc, messages, _ := newModerationFixture()

	userMsg := &models.Message{
		ConversationID: 1,
		Role:           "user",
		Content:        "pending question",
		Category:       "legal",
		Flagged:        true,
		Timestamp:      time.Now().UTC(),
	}
	require.NoError(t, messages.SaveMessage(userMsg))

	items, err := svc.Queue()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "No response yet", items[0].AIResponse)
}

func TestActApproveResolvesMessage(t *testing.T) {
	svc, messages, decisions := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "I have a fever", "See a professional.", safety.PriorityHigh)

	moderator := "mod-1"
	result, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{Action: models.ActionApprove}, &moderator)
	require.NoError(t, err)

	assert.Equal(t, userMsg.ID, result.MessageID)
	assert.Equal(t, "See a professional.", result.OriginalResponse)
	assert.Equal(t, "See a professional.", result.FinalResponse)

	recorded, err := decisions.GetDecisionsByMessage(userMsg.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActionApprove, recorded[0].Action)
	require.NotNil(t, recorded[0].Moderator)
	assert.Equal(t, "mod-1", *recorded[0].Moderator)

	// Decided messages never reappear in the queue.
	items, err := svc.Queue()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestActEditRequiresEditedResponse(t *testing.T) {
	svc, messages, _ := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "question", "answer", safety.PriorityMedium)

	_, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{Action: models.ActionEdit}, nil)
	assert.ErrorIs(t, err, ErrMissingEditedResponse)

	result, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{
		Action:         models.ActionEdit,
		EditedResponse: "A safer answer.",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "answer", result.OriginalResponse)
	assert.Equal(t, "A safer answer.", result.FinalResponse)
}

func TestActRejectRequiresAlternative(t *testing.T) {
	svc, messages, decisions := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "question", "bad answer", safety.PriorityMedium)

	_, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{Action: models.ActionReject}, nil)
	assert.ErrorIs(t, err, ErrMissingAlternativeResponse)

	result, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{
		Action:              models.ActionReject,
		AlternativeResponse: "A replacement answer.",
		RejectionReason:     "inaccurate",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A replacement answer.", result.FinalResponse)

	// The failed validation above must not have stored anything.
	recorded, err := decisions.GetDecisionsByMessage(userMsg.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	decision := recorded[0]
	require.NotNil(t, decision.EditedResponse)
	assert.Equal(t, "A replacement answer.", *decision.EditedResponse)
	require.NotNil(t, decision.RejectionReason)
	assert.Equal(t, "inaccurate", *decision.RejectionReason)
}

func TestActClarifySubstitutesFixedReply(t *testing.T) {
	svc, messages, _ := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "vague question", "vague answer", safety.PriorityLow)

	result, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{Action: models.ActionClarify}, nil)
	require.NoError(t, err)
	assert.Equal(t, clarifyResponse, result.FinalResponse)
	assert.Equal(t, "vague answer", result.OriginalResponse)
}

func TestActEscalateKeepsOriginal(t *testing.T) {
	svc, messages, _ := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "hard case", "original answer", safety.PriorityHigh)

	result, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{Action: models.ActionEscalate}, nil)
	require.NoError(t, err)
	assert.Equal(t, "original answer", result.FinalResponse)
}

func TestActRejectsUnknownAction(t *testing.T) {
	svc, messages, _ := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "question", "answer", safety.PriorityLow)

	_, err := svc.Act(userMsg.ID, &models.ModeratorActionRequest{Action: "promote"}, nil)
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestActUnknownMessage(t *testing.T) {
	svc, _, _ := newModerationFixture()

	_, err := svc.Act(404, &models.ModeratorActionRequest{Action: models.ActionApprove}, nil)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestRemoveRecordsApproval(t *testing.T) {
	svc, messages, decisions := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "question", "answer", safety.PriorityMedium)

	require.NoError(t, svc.Remove(userMsg.ID, nil))

	recorded, err := decisions.GetDecisionsByMessage(userMsg.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.ActionApprove, recorded[0].Action)

	items, err := svc.Queue()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, messages, decisions := newModerationFixture()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	userMsg := flaggedPair(t, messages, 1, at, "question", "answer", safety.PriorityMedium)

	require.NoError(t, svc.Remove(userMsg.ID, nil))
	require.NoError(t, svc.Remove(userMsg.ID, nil))

	recorded, err := decisions.GetDecisionsByMessage(userMsg.ID)
	require.NoError(t, err)
	assert.Len(t, recorded, 1)
}

func TestRemoveUnknownMessage(t *testing.T) {
	svc, _, _ := newModerationFixture()

	assert.ErrorIs(t, svc.Remove(404, nil), ErrMessageNotFound)
}
