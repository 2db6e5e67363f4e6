package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"safetychat/internal/models"
)

type DecisionRepository interface {
	SaveDecision(decision *models.ModeratorDecision) error
	HasDecision(messageID int64) (bool, error)
	GetDecisionsByMessage(messageID int64) ([]*models.ModeratorDecision, error)
}

type decisionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDecisionRepository(db *sqlx.DB, logger *zap.Logger) DecisionRepository {
	return &decisionRepository{db: db, logger: logger}
}

func (r *decisionRepository) SaveDecision(decision *models.ModeratorDecision) error {
	query := `INSERT INTO moderator_decisions (message_id, moderator, action, original_response, edited_response,
	                                           rejection_reason, notes, review_time_seconds, timestamp)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowx(query, decision.MessageID, decision.Moderator, decision.Action, decision.OriginalResponse,
		decision.EditedResponse, decision.RejectionReason, decision.Notes, decision.ReviewTimeSeconds,
		decision.Timestamp).Scan(&decision.ID)
}

func (r *decisionRepository) HasDecision(messageID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM moderator_decisions WHERE message_id = $1)`
	err := r.db.Get(&exists, query, messageID)
	return exists, err
}

func (r *decisionRepository) GetDecisionsByMessage(messageID int64) ([]*models.ModeratorDecision, error) {
	var decisions []*models.ModeratorDecision
	query := `SELECT * FROM moderator_decisions WHERE message_id = $1 ORDER BY timestamp`
	err := r.db.Select(&decisions, query, messageID)
	return decisions, err
}
