package service

import (
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"safetychat/internal/models"
	"safetychat/internal/repository"
	"safetychat/internal/safety"
)

var (
	ErrMessageNotFound            = errors.New("message not found")
	ErrInvalidAction              = errors.New("unknown action")
	ErrMissingEditedResponse      = errors.New("edited_response is required for edit action")
	ErrMissingAlternativeResponse = errors.New("alternative_response is required for reject action")
)

// clarifyResponse is the fixed reply substituted by the clarify action.
const clarifyResponse = "Can you provide more details about your situation? This will help me give you a more accurate response."

// noResponseYet fills the queue view when the assistant reply is missing.
const noResponseYet = "No response yet"

type ModerationService struct {
	messages  repository.MessageRepository
	decisions repository.DecisionRepository
	logger    *zap.Logger
}

func NewModerationService(messages repository.MessageRepository, decisions repository.DecisionRepository, logger *zap.Logger) *ModerationService {
	return &ModerationService{messages: messages, decisions: decisions, logger: logger}
}

// Queue returns the pending review queue: flagged user messages without a
// decision, each joined with its assistant reply, ordered by priority then
// newest first within a priority.
func (s *ModerationService) Queue() ([]models.FlaggedItem, error) {
	flagged, err := s.messages.ListUnreviewedFlagged()
	if err != nil {
		return nil, err
	}

	items := make([]models.FlaggedItem, 0, len(flagged))
	for _, userMsg := range flagged {
		item := models.FlaggedItem{
			ID:          userMsg.ID,
			Timestamp:   userMsg.Timestamp.Format(time.RFC3339Nano),
			UserMessage: userMsg.Content,
			AIResponse:  noResponseYet,
			Category:    userMsg.Category,
			Confidence:  userMsg.Confidence,
		}

		aiMsg, err := s.messages.GetAssistantReplyAfter(userMsg.ConversationID, userMsg.Timestamp)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if aiMsg != nil {
			item.AIResponse = aiMsg.Content
			item.ConfidenceScore = aiMsg.ConfidenceScore
			if aiMsg.ConfidenceScore != nil {
				level := levelFor(*aiMsg.ConfidenceScore)
				item.ConfidenceLevel = &level
			}
			item.PriorityLevel = aiMsg.PriorityLevel
			item.EscalationReason = aiMsg.EscalationReason
			item.TargetResponseTime = aiMsg.TargetResponseTime
		}
		if item.PriorityLevel == nil {
			item.PriorityLevel = userMsg.PriorityLevel
		}
		if item.EscalationReason == nil {
			item.EscalationReason = userMsg.EscalationReason
		}
		if item.TargetResponseTime == nil {
			item.TargetResponseTime = userMsg.TargetResponseTime
		}

		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := priorityRank(items[i].PriorityLevel), priorityRank(items[j].PriorityLevel)
		if ri != rj {
			return ri < rj
		}
		return items[i].Timestamp > items[j].Timestamp
	})

	return items, nil
}

// Act records a moderator decision on a flagged message and returns the
// response the user should ultimately see. Validation failures return
// sentinel errors; the first recorded decision resolves the message, later
// decisions are still appended as audit history.
func (s *ModerationService) Act(messageID int64, req *models.ModeratorActionRequest, moderator *string) (*models.ActionResult, error) {
	userMsg, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	originalResponse := userMsg.Content
	aiMsg, err := s.messages.GetAssistantReplyAfter(userMsg.ConversationID, userMsg.Timestamp)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if aiMsg != nil {
		originalResponse = aiMsg.Content
	}

	var finalResponse string
	var edited *string
	switch req.Action {
	case models.ActionEdit:
		if req.EditedResponse == "" {
			return nil, ErrMissingEditedResponse
		}
		finalResponse = req.EditedResponse
		edited = &req.EditedResponse
	case models.ActionReject:
		if req.AlternativeResponse == "" {
			return nil, ErrMissingAlternativeResponse
		}
		finalResponse = req.AlternativeResponse
		edited = &req.AlternativeResponse
	case models.ActionApprove:
		finalResponse = originalResponse
	case models.ActionClarify:
		finalResponse = clarifyResponse
	case models.ActionEscalate:
		// Original answer stands, the record marks it for admin review.
		finalResponse = originalResponse
	default:
		return nil, ErrInvalidAction
	}

	decision := &models.ModeratorDecision{
		MessageID:        messageID,
		Moderator:        moderator,
		Action:           req.Action,
		OriginalResponse: &originalResponse,
		EditedResponse:   edited,
		Timestamp:        time.Now().UTC(),
	}
	if req.RejectionReason != "" {
		decision.RejectionReason = &req.RejectionReason
	}
	if req.Notes != "" {
		decision.Notes = &req.Notes
	}
	decision.ReviewTimeSeconds = req.ReviewTimeSeconds

	if err := s.decisions.SaveDecision(decision); err != nil {
		return nil, err
	}

	s.logger.Info("Moderator decision recorded",
		zap.Int64("message_id", messageID),
		zap.String("action", req.Action))

	return &models.ActionResult{
		MessageID:        messageID,
		DecisionID:       decision.ID,
		OriginalResponse: originalResponse,
		FinalResponse:    finalResponse,
	}, nil
}

// Remove resolves a queue entry without an explicit verdict, recording an
// approval so the entry never reappears. Removing an already resolved entry
// is a no-op.
func (s *ModerationService) Remove(messageID int64, moderator *string) error {
	if _, err := s.messages.GetMessageByID(messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}

	has, err := s.decisions.HasDecision(messageID)
	if err != nil {
		return err
	}
	if models.StateOf(has) == models.ReviewResolved {
		return nil
	}

	decision := &models.ModeratorDecision{
		MessageID: messageID,
		Moderator: moderator,
		Action:    models.ActionApprove,
		Timestamp: time.Now().UTC(),
	}
	return s.decisions.SaveDecision(decision)
}

func priorityRank(level *string) int {
	if level == nil {
		return safety.PriorityRank[safety.PriorityLow]
	}
	if rank, ok := safety.PriorityRank[*level]; ok {
		return rank
	}
	return safety.PriorityRank[safety.PriorityLow]
}

func levelFor(score float64) string {
	switch {
	case score >= 80:
		return safety.LevelHigh
	case score >= 50:
		return safety.LevelMedium
	default:
		return safety.LevelLow
	}
}
