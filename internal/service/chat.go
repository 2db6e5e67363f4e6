// Package service orchestrates the moderation pipeline over the storage and
// transport layers.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safetychat/internal/cache"
	"safetychat/internal/config"
	"safetychat/internal/models"
	"safetychat/internal/notifier"
	"safetychat/internal/repository"
	"safetychat/internal/responder"
	"safetychat/internal/safety"
)

// ErrEmptyMessage rejects requests whose message is empty or whitespace.
var ErrEmptyMessage = errors.New("message cannot be empty")

// ErrConversationNotFound is returned when a session id is unknown.
var ErrConversationNotFound = errors.New("conversation not found")

// contextWindow is how many stored turns feed the context analyzer; the new
// message makes a ten turn window.
const contextWindow = 9

// safetyFirstDelay is the extra hold applied in "safety" response speed mode.
const safetyFirstDelay = 100 * time.Millisecond

type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	responder     responder.Responder
	cache         *cache.RedisClient
	notifier      *notifier.Telegram
	settings      *SettingsStore
	cfg           *config.Config
	logger        *zap.Logger
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	rsp responder.Responder,
	redis *cache.RedisClient,
	tg *notifier.Telegram,
	settings *SettingsStore,
	cfg *config.Config,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		responder:     rsp,
		cache:         redis,
		notifier:      tg,
		settings:      settings,
		cfg:           cfg,
		logger:        logger,
	}
}

// settingsFor merges the per-request settings over the server defaults.
func (s *ChatService) settingsFor(req *models.ChatRequest) models.Settings {
	defaults := s.settings.Current()
	settings := defaults
	if req.Settings != nil {
		settings = *req.Settings
		if settings.SafetyLevel == "" {
			settings.SafetyLevel = defaults.SafetyLevel
		}
		if settings.ResponseSpeed == "" {
			settings.ResponseSpeed = defaults.ResponseSpeed
		}
	}
	if req.LearningMode {
		settings.LearningMode = true
	}
	return settings
}

// Process runs one message through the full pipeline: redaction, keyword
// classification, context analysis, response generation, confidence scoring,
// flag aggregation, priority resolution, and persistence. Only the redacted
// text is processed or stored; the raw input never leaves this function.
func (s *ChatService) Process(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	trimmed := strings.TrimSpace(req.Message)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	red := safety.Redact(trimmed)
	settings := s.settingsFor(req)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conv, err := s.conversations.GetOrCreateConversation(sessionID)
	if err != nil {
		return nil, err
	}

	history := s.recentTurns(ctx, sessionID, conv.ID)

	assessment := safety.AssessMessage(history, red.Text)

	if settings.ResponseSpeed == "safety" {
		// Hold the response briefly so the additional review pass in "Safety
		// First" mode is perceptible to the user.
		select {
		case <-time.After(safetyFirstDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Generator.TimeoutSeconds)*time.Second)
	defer cancel()

	aiResponse, err := s.responder.Generate(genCtx, red.Text, assessment.Category, red.Types)
	if err != nil {
		// The local responder is infallible, so this only fires for a remote
		// generator without fallback wiring. Degrade to the local reply.
		s.logger.Error("Response generation failed, using local responder", zap.Error(err))
		aiResponse, _ = responder.NewLocal().Generate(ctx, red.Text, assessment.Category, red.Types)
	}

	score := safety.ScoreConfidence(red.Text, aiResponse, assessment.Category)
	verdict := safety.Finalize(assessment, score, settings.SafetyLevel, red.Text)

	userMsg, aiMsg := s.buildMessages(conv.ID, red, aiResponse, verdict)

	// Messages are stored even with data logging off: the context analyzer
	// needs the turn history, and crisis content must always be retained for
	// review. In-memory context tracking would be needed to honor the
	// setting fully.
	if err := s.messages.SaveMessage(userMsg); err != nil {
		return nil, err
	}
	if err := s.messages.SaveMessage(aiMsg); err != nil {
		return nil, err
	}

	s.cacheTurns(ctx, sessionID, userMsg, aiMsg)

	if verdict.FinalFlagged && verdict.Priority.Level == safety.PriorityCritical {
		s.notifier.NotifyCritical(userMsg.ID, verdict.Priority.Reason, verdict.ModeratorSummary)
	}

	resp := &models.ChatResponse{
		Response:            aiResponse,
		Category:            storedCategory(verdict.Category),
		Confidence:          1.0,
		ConfidenceScore:     verdict.Score.Score,
		ConfidenceLevel:     verdict.Score.Level,
		ConfidenceReasons:   verdict.Score.Reasons,
		Flagged:             verdict.FinalFlagged,
		MessageForModerator: verdict.ModeratorSummary,
		SessionID:           sessionID,
	}
	if verdict.Assessment.Flagged {
		resp.Confidence = verdict.Confidence
	}
	if red.Detected {
		resp.PIIWarning = safety.PIIWarning
	}
	if settings.Transparency && (verdict.FinalFlagged || verdict.Category != "") {
		resp.GuardrailExplanation = safety.GuardrailExplanation(verdict)
	}
	if settings.LearningMode {
		analysis := safety.BuildLearningAnalysis(red.Text, verdict, red.Types)
		resp.LearningAnalysis = &analysis
	}

	return resp, nil
}

// historyLimit caps the conversation history endpoint at the last ten turns.
const historyLimit = 10

// History returns the last stored turns of a session in chronological order.
func (s *ChatService) History(sessionID string) ([]models.ConversationTurn, error) {
	conv, err := s.conversations.GetConversationBySession(sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.messages.GetRecentTurns(conv.ID, historyLimit)
}

// HealthCounts surfaces the repository counters for the health endpoint.
func (s *ChatService) HealthCounts() (flagged, total, lowConfidence int64, err error) {
	return s.messages.HealthCounts()
}

func (s *ChatService) recentTurns(ctx context.Context, sessionID string, conversationID int64) []models.ConversationTurn {
	turns, err := s.cache.RecentTurns(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Redis turn window unavailable, falling back to database", zap.Error(err))
	}
	if len(turns) > 0 {
		return turns
	}

	turns, err = s.messages.GetRecentTurns(conversationID, contextWindow)
	if err != nil {
		s.logger.Error("Failed to load conversation history", zap.Error(err))
		return nil
	}
	return turns
}

func (s *ChatService) cacheTurns(ctx context.Context, sessionID string, msgs ...*models.Message) {
	for _, msg := range msgs {
		turn := models.ConversationTurn{
			Role:       msg.Role,
			Content:    msg.Content,
			Category:   msg.Category,
			Confidence: msg.Confidence,
			Timestamp:  msg.Timestamp,
		}
		if err := s.cache.PushTurn(ctx, sessionID, turn); err != nil {
			s.logger.Warn("Failed to cache conversation turn", zap.Error(err))
			return
		}
	}
}

func (s *ChatService) buildMessages(conversationID int64, red safety.Redaction, aiResponse string, v safety.Verdict) (*models.Message, *models.Message) {
	now := time.Now().UTC()

	var keywordConf *float64
	if v.Assessment.Flagged {
		c := v.Confidence
		keywordConf = &c
	}

	userMsg := &models.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        red.Text,
		Category:       storedCategory(v.Category),
		Confidence:     keywordConf,
		Flagged:        v.Assessment.Flagged,
		PIIDetected:    red.Detected,
		PIITypes:       red.Types,
		Timestamp:      now,
	}

	score := v.Score.Score
	level := v.Score.Level
	aiMsg := &models.Message{
		ConversationID:  conversationID,
		Role:            "assistant",
		Content:         aiResponse,
		Category:        storedCategory(v.Category),
		Confidence:      keywordConf,
		ConfidenceScore: &score,
		ConfidenceLevel: &level,
		Flagged:         v.FinalFlagged,
		Timestamp:       now.Add(time.Millisecond),
	}
	if v.FinalFlagged {
		priority := v.Priority.Level
		reason := v.Priority.Reason
		target := v.Priority.TargetResponseTime
		aiMsg.PriorityLevel = &priority
		aiMsg.EscalationReason = &reason
		aiMsg.TargetResponseTime = &target
	}

	return userMsg, aiMsg
}

func storedCategory(category string) string {
	if category == "" {
		return safety.CategorySafe
	}
	return category
}
