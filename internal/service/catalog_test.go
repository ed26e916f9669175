package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henko-ai/botmarket/internal/domain"
)

func TestCatalog_Get(t *testing.T) {
	catalog := NewCatalog(DefaultBots("https://automation.example.com"))

	bot, err := catalog.Get("fase1")
	require.NoError(t, err)
	assert.Equal(t, "fase1", bot.ID)
	assert.Equal(t, domain.BotKindChat, bot.Kind)
	assert.Equal(t, "https://automation.example.com/webhook/fase1", bot.WebhookURL)

	_, err = catalog.Get("desconocido")
	assert.ErrorIs(t, err, domain.ErrBotNotFound)
}

func TestDefaultBots(t *testing.T) {
	bots := DefaultBots("https://automation.example.com")
	require.Len(t, bots, 6)

	seen := make(map[string]bool)
	kinds := make(map[domain.BotKind]int)
	for _, b := range bots {
		assert.False(t, seen[b.ID], "duplicate bot id %q", b.ID)
		seen[b.ID] = true
		kinds[b.Kind]++

		assert.NotEmpty(t, b.Name)
		assert.NotEmpty(t, b.StorageKey)
		assert.Contains(t, b.WebhookURL, "https://automation.example.com/webhook/")
		assert.True(t, b.PricePerMessage.IsPositive())
	}

	assert.Equal(t, 4, kinds[domain.BotKindChat])
	assert.Equal(t, 1, kinds[domain.BotKindImage])
	assert.Equal(t, 1, kinds[domain.BotKindVideo])

	// The onboarding bot keeps the unscoped legacy storage key.
	onboarding, err := NewCatalog(bots).Get("onboarding")
	require.NoError(t, err)
	assert.Equal(t, "chatSessions", onboarding.StorageKey)
}

func TestCatalog_ListCopies(t *testing.T) {
	catalog := NewCatalog(DefaultBots("https://automation.example.com"))

	list := catalog.List()
	list[0].Name = "mutated"

	again, err := catalog.Get(list[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Name)
}
