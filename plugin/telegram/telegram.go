// Package telegram delivers contact messages through the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hrygo/portfolio/store"
)

// Config holds configuration for the Telegram notifier.
type Config struct {
	BotToken string
	ChatID   int64
	// APIEndpoint overrides tgbotapi.APIEndpoint, mainly for tests.
	APIEndpoint string
}

// Notifier sends contact messages to a single Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates the bot client. It calls getMe to verify the token.
func NewNotifier(config *Config) (*Notifier, error) {
	if config.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if config.ChatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}

	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := &http.Client{Timeout: 30 * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(config.BotToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	slog.Debug("telegram: bot authorized", "username", bot.Self.UserName)

	return &Notifier{bot: bot, chatID: config.ChatID}, nil
}

func (*Notifier) Name() string {
	return "telegram"
}

func (n *Notifier) Notify(ctx context.Context, msg *store.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tgMsg := tgbotapi.NewMessage(n.chatID, formatMessage(msg))
	tgMsg.DisableWebPagePreview = true
	if _, err := n.bot.Send(tgMsg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func formatMessage(msg *store.ContactMessage) string {
	return fmt.Sprintf("New contact message (%s)\nFrom: %s <%s>\nSubject: %s\n\n%s",
		msg.Reference, msg.Name, msg.Email, msg.Subject, msg.Message)
}
