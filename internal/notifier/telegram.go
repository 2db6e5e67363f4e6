// Package notifier pushes alerts about critical queue entries to the
// moderator Telegram channel.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"safetychat/internal/config"
)

// Telegram sends moderator alerts. A nil *Telegram is a valid disabled
// notifier, all methods are nil-safe.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates the Telegram notifier. Returns (nil, nil) when the
// notifier is disabled or no token is configured.
func NewTelegram(cfg *config.Config, logger *zap.Logger) (*Telegram, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &Telegram{
		api:    botAPI,
		chatID: cfg.Notifier.ChatID,
		logger: logger,
	}, nil
}

// NotifyCritical alerts moderators about a critical priority queue entry.
// Delivery failures are logged, never propagated; the chat flow must not
// depend on Telegram availability.
func (t *Telegram) NotifyCritical(messageID int64, reason, summary string) {
	if t == nil {
		return
	}

	text := fmt.Sprintf("🚨 CRITICAL review required\nMessage #%d\nReason: %s\n%s", messageID, reason, summary)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send critical alert", zap.Int64("message_id", messageID), zap.Error(err))
	}
}
