package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safetychat/internal/responder"
	"safetychat/internal/service"
)

type MetaHandler interface {
	Root(c *gin.Context)
	Health(c *gin.Context)
	ConfidenceExamples(c *gin.Context)
}

type metaHandler struct {
	chatService *service.ChatService
	generator   *responder.RemoteClient // nil when the local responder is used
	logger      *zap.Logger
}

func NewMetaHandler(chatService *service.ChatService, generator *responder.RemoteClient, logger *zap.Logger) MetaHandler {
	return &metaHandler{
		chatService: chatService,
		generator:   generator,
		logger:      logger,
	}
}

// Root handles GET /
func (h *metaHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "AI Safety Chat API",
		"version":  "2.0.0",
		"database": "PostgreSQL",
	})
}

// Health handles GET /health
func (h *metaHandler) Health(c *gin.Context) {
	flagged, total, lowConfidence, err := h.chatService.HealthCounts()
	if err != nil {
		h.logger.Error("Health check database query failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	resp := gin.H{
		"status":                   "healthy",
		"flagged_count":            flagged,
		"total_messages":           total,
		"low_confidence_responses": lowConfidence,
		"database":                 "connected",
	}

	// A dead generator is not fatal, the chat flow degrades to the local
	// responder. Report it alongside the database state.
	if h.generator != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if _, err := h.generator.HealthCheck(ctx); err != nil {
			h.logger.Warn("Generation service health check failed", zap.Error(err))
			resp["generator"] = "unreachable"
		} else {
			resp["generator"] = "connected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

type confidenceExample struct {
	Query              string   `json:"query"`
	ExpectedConfidence float64  `json:"expected_confidence"`
	ConfidenceLevel    string   `json:"confidence_level"`
	Reasons            []string `json:"reasons"`
	Category           string   `json:"category"`
}

// ConfidenceExamples handles GET /confidence/examples
func (h *metaHandler) ConfidenceExamples(c *gin.Context) {
	examples := []confidenceExample{
		{"Capital of France?", 100, "High", []string{"Query asks for verifiable geographical fact"}, "safe"},
		{"What is 2+2?", 100, "High", []string{"Query asks for verifiable mathematical calculation"}, "safe"},
		{"Who invented the telephone?", 95, "High", []string{"Query asks for verifiable historical fact"}, "safe"},
		{"Explain photosynthesis", 95, "High", []string{"Query asks for verifiable scientific fact"}, "safe"},
		{"Best programming language?", 60, "Medium", []string{"Query requests subjective comparison or opinion"}, "safe"},
		{"Should I buy a house?", 30, "Low", []string{"Query requests personal financial advice"}, "financial"},
		{"Will AI take all jobs?", 40, "Low", []string{"Query involves future predictions with uncertainty"}, "safe"},
		{"What is the weather today?", 65, "Medium", []string{"Weather information requires current data"}, "safe"},
	}

	c.JSON(http.StatusOK, gin.H{
		"examples": examples,
		"confidence_levels": gin.H{
			"High":   "80-100% - Factual, well-established information",
			"Medium": "50-79% - Some uncertainty or subjective elements",
			"Low":    "0-49% - High uncertainty, requires human review",
		},
		"auto_flagging": gin.H{
			"threshold":   50.0,
			"description": "Responses with confidence < 50% are automatically flagged for review",
		},
	})
}
