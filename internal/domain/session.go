package domain

import "time"

// BotPermissions maps a bot id to whether the user may use that bot.
// Example: {"onboarding": true, "fase1": false, "fase2": true}.
type BotPermissions map[string]bool

// Session is the fully resolved authentication state for one identity.
// It is published only after user, token and permissions have all been
// set, and is immutable once published.
type Session struct {
	User           *User
	AuthToken      string
	BotPermissions BotPermissions
	ResolvedAt     time.Time
	ExpiresAt      time.Time
}

func (s *Session) Entitled(botID string) bool {
	if s == nil || s.BotPermissions == nil {
		return false
	}
	return s.BotPermissions[botID]
}

func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
