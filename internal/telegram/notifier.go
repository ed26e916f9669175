// Package telegram sends operational alerts to a Telegram ops chat.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/henko-ai/botmarket/internal/config"
)

// Notifier mirrors selected events into a Telegram chat with per-type
// topics. A nil Notifier, or one without a configured chat, drops
// everything silently.
type Notifier struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewNotifier(b *bot.Bot, cfg *config.Config) *Notifier {
	return &Notifier{bot: b, cfg: cfg}
}

type EventType string

const (
	EventError        EventType = "error"
	EventRegistration EventType = "registration"
	EventDenied       EventType = "denied"
)

func (n *Notifier) send(eventType EventType, message string) {
	if n == nil || n.bot == nil || n.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := n.topicID(eventType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxOpsMessageLen {
		message = string([]rune(message)[:config.MaxOpsMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          n.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram alert", "type", eventType, "error", err)
	}
}

func (n *Notifier) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	n.send(EventError, msg)
}

func (n *Notifier) LogRegistration(email, name string) {
	msg := fmt.Sprintf("👤 *New Registration*\n\n*Email:* `%s`\n*Name:* %s", email, name)
	n.send(EventRegistration, msg)
}

func (n *Notifier) LogEntitlementDenied(email, botID string) {
	msg := fmt.Sprintf("🚫 *Bot Access Denied*\n\n*Email:* `%s`\n*Bot:* `%s`", email, botID)
	n.send(EventDenied, msg)
}

func (n *Notifier) topicID(eventType EventType) int {
	switch eventType {
	case EventError:
		return n.cfg.LogTopicError
	case EventRegistration:
		return n.cfg.LogTopicRegistration
	case EventDenied:
		return n.cfg.LogTopicDenied
	}
	return 0
}
