package domain

import "github.com/shopspring/decimal"

type BotKind string

const (
	BotKindChat  BotKind = "chat"
	BotKindImage BotKind = "image"
	BotKindVideo BotKind = "video"
)

// BotConfig is the static configuration of one marketplace bot.
// Immutable; defined once in the catalog.
type BotConfig struct {
	ID              string
	Name            string
	Description     string
	IconRef         string
	LogoRef         string
	WelcomeTitle    string
	WebhookURL      string
	StorageKey      string
	Kind            BotKind
	PricePerMessage decimal.Decimal
}
