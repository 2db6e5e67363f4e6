package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"safetychat/internal/cache"
	"safetychat/internal/config"
	"safetychat/internal/handler"
	"safetychat/internal/middleware"
	"safetychat/internal/models"
	"safetychat/internal/notifier"
	"safetychat/internal/repository"
	"safetychat/internal/responder"
	"safetychat/internal/service"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
	log    *logrus.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, redis *cache.RedisClient, tg *notifier.Telegram, logger *zap.Logger) *Server {
	router := gin.New()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
		log:    logrus.New(),
	}

	s.setupRoutes(redis, tg)

	return s
}

func (s *Server) setupRoutes(redis *cache.RedisClient, tg *notifier.Telegram) {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.LoggerMiddleware(s.log))

	limiter := middleware.NewRateLimiter(s.cfg.RateLimit.RPS)
	limiter.Cleanup()
	s.router.Use(middleware.RateLimitMiddleware(limiter))

	conversationRepo := repository.NewConversationRepository(s.db, s.logger)
	messageRepo := repository.NewMessageRepository(s.db, s.logger)
	decisionRepo := repository.NewDecisionRepository(s.db, s.logger)

	var rsp responder.Responder = responder.NewLocal()
	var remote *responder.RemoteClient
	if s.cfg.Generator.Enabled && s.cfg.Generator.URL != "" {
		remote = responder.NewRemoteClient(s.cfg.Generator.URL, s.cfg.GeneratorTimeout())
		rsp = remote
		s.logger.Info("Remote generation service enabled", zap.String("url", s.cfg.Generator.URL))
	}

	settings := service.NewSettingsStore(models.Settings{
		SafetyLevel:   s.cfg.Safety.Level,
		Transparency:  s.cfg.Safety.Transparency,
		LearningMode:  s.cfg.Safety.LearningMode,
		DataLogging:   s.cfg.Safety.DataLogging,
		ResponseSpeed: s.cfg.Safety.ResponseSpeed,
	})

	chatService := service.NewChatService(conversationRepo, messageRepo, rsp, redis, tg, settings, s.cfg, s.logger)
	moderationService := service.NewModerationService(messageRepo, decisionRepo, s.logger)

	chatHandler := handler.NewChatHandler(chatService, s.logger)
	moderatorHandler := handler.NewModeratorHandler(moderationService, s.logger)
	settingsHandler := handler.NewSettingsHandler(settings, s.logger)
	metaHandler := handler.NewMetaHandler(chatService, remote, s.logger)

	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	s.router.GET("/", metaHandler.Root)
	s.router.GET("/health", metaHandler.Health)
	s.router.GET("/confidence/examples", metaHandler.ConfidenceExamples)

	s.router.POST("/chat", chatHandler.Chat)
	s.router.GET("/conversation/:session_id", chatHandler.GetConversation)

	// Moderator surface requires a token from the auth service.
	moderatorGroup := s.router.Group("/moderator")
	moderatorGroup.Use(middleware.AuthMiddleware([]byte(s.cfg.Auth.JWTSecret), s.logger))
	{
		moderatorGroup.GET("/queue", moderatorHandler.GetQueue)
		moderatorGroup.POST("/queue/:id/action", moderatorHandler.TakeAction)
		moderatorGroup.DELETE("/queue/:id", moderatorHandler.RemoveFromQueue)
	}

	settingsGroup := s.router.Group("/api")
	settingsGroup.Use(middleware.AuthMiddleware([]byte(s.cfg.Auth.JWTSecret), s.logger))
	{
		settingsGroup.GET("/settings", settingsHandler.GetSettings)
		settingsGroup.POST("/settings", settingsHandler.UpdateSettings)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
