package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safetychat/internal/models"
	"safetychat/internal/service"
)

type SettingsHandler interface {
	GetSettings(c *gin.Context)
	UpdateSettings(c *gin.Context)
}

type settingsHandler struct {
	store  *service.SettingsStore
	logger *zap.Logger
}

func NewSettingsHandler(store *service.SettingsStore, logger *zap.Logger) SettingsHandler {
	return &settingsHandler{
		store:  store,
		logger: logger,
	}
}

// GetSettings handles GET /api/settings
func (h *settingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Current())
}

// UpdateSettings handles POST /api/settings
func (h *settingsHandler) UpdateSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.SafetyLevel != "" {
		switch req.SafetyLevel {
		case "strict", "moderate", "lenient":
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "safety_level must be strict, moderate or lenient"})
			return
		}
	}

	updated := h.store.Update(req)
	h.logger.Info("Settings updated",
		zap.String("safety_level", updated.SafetyLevel),
		zap.Bool("learning_mode", updated.LearningMode))

	c.JSON(http.StatusOK, updated)
}
