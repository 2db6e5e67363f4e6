package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"safetychat/internal/models"
)

type MessageRepository interface {
	SaveMessage(msg *models.Message) error
	GetMessageByID(id int64) (*models.Message, error)
	GetRecentTurns(conversationID int64, limit int) ([]models.ConversationTurn, error)
	ListUnreviewedFlagged() ([]*models.Message, error)
	GetAssistantReplyAfter(conversationID int64, after time.Time) (*models.Message, error)
	HealthCounts() (flagged, total, lowConfidence int64, err error)
}

type messageRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMessageRepository(db *sqlx.DB, logger *zap.Logger) MessageRepository {
	return &messageRepository{db: db, logger: logger}
}

func (r *messageRepository) SaveMessage(msg *models.Message) error {
	query := `INSERT INTO messages (conversation_id, role, content, category, confidence, confidence_score, confidence_level,
	                                flagged, pii_detected, pii_types, priority_level, escalation_reason, target_response_time, timestamp)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	return r.db.QueryRowx(query, msg.ConversationID, msg.Role, msg.Content, msg.Category, msg.Confidence,
		msg.ConfidenceScore, msg.ConfidenceLevel, msg.Flagged, msg.PIIDetected, msg.PIITypes,
		msg.PriorityLevel, msg.EscalationReason, msg.TargetResponseTime, msg.Timestamp).Scan(&msg.ID)
}

func (r *messageRepository) GetMessageByID(id int64) (*models.Message, error) {
	var msg models.Message
	query := `SELECT * FROM messages WHERE id = $1`
	err := r.db.Get(&msg, query, id)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetRecentTurns returns the last messages of a conversation in chronological
// order, shaped for the context analyzer.
func (r *messageRepository) GetRecentTurns(conversationID int64, limit int) ([]models.ConversationTurn, error) {
	var msgs []models.Message
	query := `SELECT * FROM messages WHERE conversation_id = $1 ORDER BY timestamp DESC, id DESC LIMIT $2`
	if err := r.db.Select(&msgs, query, conversationID, limit); err != nil {
		return nil, err
	}

	turns := make([]models.ConversationTurn, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		turns = append(turns, models.ConversationTurn{
			Role:       msg.Role,
			Content:    msg.Content,
			Category:   msg.Category,
			Confidence: msg.Confidence,
			Timestamp:  msg.Timestamp,
		})
	}
	return turns, nil
}

// ListUnreviewedFlagged returns flagged user messages that have no moderator
// decision yet. A recorded decision removes the message from this set for
// good, decisions are never deleted.
func (r *messageRepository) ListUnreviewedFlagged() ([]*models.Message, error) {
	var msgs []*models.Message
	query := `SELECT m.* FROM messages m
	          WHERE m.flagged = true AND m.role = 'user'
	            AND NOT EXISTS (SELECT 1 FROM moderator_decisions d WHERE d.message_id = m.id)`
	if err := r.db.Select(&msgs, query); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetAssistantReplyAfter finds the first assistant message following a user
// turn in the same conversation.
func (r *messageRepository) GetAssistantReplyAfter(conversationID int64, after time.Time) (*models.Message, error) {
	var msg models.Message
	query := `SELECT * FROM messages
	          WHERE conversation_id = $1 AND role = 'assistant' AND timestamp > $2
	          ORDER BY timestamp, id LIMIT 1`
	err := r.db.Get(&msg, query, conversationID, after)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) HealthCounts() (flagged, total, lowConfidence int64, err error) {
	query := `SELECT
	            COUNT(*) FILTER (WHERE flagged),
	            COUNT(*),
	            COUNT(*) FILTER (WHERE role = 'assistant' AND confidence_score < 50)
	          FROM messages`
	err = r.db.QueryRowx(query).Scan(&flagged, &total, &lowConfidence)
	return flagged, total, lowConfidence, err
}
