package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safetychat/internal/middleware"
	"safetychat/internal/models"
	"safetychat/internal/service"
)

type ModeratorHandler interface {
	GetQueue(c *gin.Context)
	TakeAction(c *gin.Context)
	RemoveFromQueue(c *gin.Context)
}

type moderatorHandler struct {
	moderation *service.ModerationService
	logger     *zap.Logger
}

func NewModeratorHandler(moderation *service.ModerationService, logger *zap.Logger) ModeratorHandler {
	return &moderatorHandler{
		moderation: moderation,
		logger:     logger,
	}
}

// GetQueue handles GET /moderator/queue
func (h *moderatorHandler) GetQueue(c *gin.Context) {
	items, err := h.moderation.Queue()
	if err != nil {
		h.logger.Error("Failed to load moderator queue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load queue"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// TakeAction handles POST /moderator/queue/:id/action
func (h *moderatorHandler) TakeAction(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	var req models.ModeratorActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.moderation.Act(messageID, &req, middleware.ModeratorName(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		case errors.Is(err, service.ErrMissingEditedResponse),
			errors.Is(err, service.ErrMissingAlternativeResponse),
			errors.Is(err, service.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to record moderator action",
				zap.Int64("message_id", messageID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record action"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Action '" + req.Action + "' recorded",
		"id":                result.MessageID,
		"decision_id":       result.DecisionID,
		"original_response": result.OriginalResponse,
		"final_response":    result.FinalResponse,
	})
}

// RemoveFromQueue handles DELETE /moderator/queue/:id
func (h *moderatorHandler) RemoveFromQueue(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	if err := h.moderation.Remove(messageID, middleware.ModeratorName(c)); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		h.logger.Error("Failed to remove message from queue",
			zap.Int64("message_id", messageID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message removed from queue", "id": messageID})
}
