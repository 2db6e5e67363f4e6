package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"safetychat/internal/models"
)

type ConversationRepository interface {
	GetOrCreateConversation(sessionID string) (*models.Conversation, error)
	GetConversationBySession(sessionID string) (*models.Conversation, error)
}

type conversationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewConversationRepository(db *sqlx.DB, logger *zap.Logger) ConversationRepository {
	return &conversationRepository{db: db, logger: logger}
}

// GetOrCreateConversation looks up the conversation for a session id and
// creates it on first use. The unique index on session_id plus ON CONFLICT
// keeps concurrent first messages of the same session from racing.
func (r *conversationRepository) GetOrCreateConversation(sessionID string) (*models.Conversation, error) {
	conv, err := r.GetConversationBySession(sessionID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	conv = &models.Conversation{}
	query := `INSERT INTO conversations (session_id, started_at)
	          VALUES ($1, $2)
	          ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
	          RETURNING id, session_id, started_at`
	if err := r.db.QueryRowx(query, sessionID, time.Now().UTC()).StructScan(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *conversationRepository) GetConversationBySession(sessionID string) (*models.Conversation, error) {
	var conv models.Conversation
	query := `SELECT id, session_id, started_at FROM conversations WHERE session_id = $1`
	err := r.db.Get(&conv, query, sessionID)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
