package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is immutable once created and never deleted individually.
type ChatMessage struct {
	ID        string
	Role      string
	Content   string
	Timestamp time.Time
}

// ChatThread is one conversation belonging to a (user, bot) pair.
// Messages are ordered by timestamp ascending.
type ChatThread struct {
	ID           string
	UserID       int64
	BotID        string
	Title        string
	Messages     []ChatMessage
	UsageCost    decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	LastActivity time.Time
}

// LastMessage returns the content of the most recent message, or ""
// for an empty thread. Used for sidebar previews.
func (t *ChatThread) LastMessage() string {
	if len(t.Messages) == 0 {
		return ""
	}
	return t.Messages[len(t.Messages)-1].Content
}
