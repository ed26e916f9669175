package service

import (
	"github.com/shopspring/decimal"

	"github.com/henko-ai/botmarket/internal/domain"
)

// Catalog holds the static marketplace bot configurations. Bots are thin
// UI skins over remote automation webhooks; nothing here is mutable at
// runtime.
type Catalog struct {
	bots []domain.BotConfig
	byID map[string]domain.BotConfig
}

func NewCatalog(bots []domain.BotConfig) *Catalog {
	byID := make(map[string]domain.BotConfig, len(bots))
	for _, b := range bots {
		byID[b.ID] = b
	}
	return &Catalog{bots: bots, byID: byID}
}

func (c *Catalog) List() []domain.BotConfig {
	out := make([]domain.BotConfig, len(c.bots))
	copy(out, c.bots)
	return out
}

func (c *Catalog) Get(botID string) (domain.BotConfig, error) {
	b, ok := c.byID[botID]
	if !ok {
		return domain.BotConfig{}, domain.ErrBotNotFound
	}
	return b, nil
}

// DefaultBots is the production bot set. Webhook URLs point at the
// automation service; storage keys scope each bot's thread collection.
func DefaultBots(automationBaseURL string) []domain.BotConfig {
	price := decimal.NewFromFloat
	return []domain.BotConfig{
		{
			ID:              "onboarding",
			Name:            "Onboarding Assistant",
			Description:     "Te guía paso a paso en la configuración inicial de tu negocio.",
			IconRef:         "/icons/onboarding.png",
			LogoRef:         "/logos/onboarding.png",
			WelcomeTitle:    "¿En qué puedo ayudarte hoy?",
			WebhookURL:      automationBaseURL + "/webhook/onboarding",
			StorageKey:      "chatSessions",
			Kind:            domain.BotKindChat,
			PricePerMessage: price(0.002),
		},
		{
			ID:              "fase1",
			Name:            "Fase 1 · Estrategia",
			Description:     "Define la estrategia de marketing de tu marca.",
			IconRef:         "/icons/fase1.png",
			LogoRef:         "/logos/fase1.png",
			WelcomeTitle:    "Empecemos por tu estrategia",
			WebhookURL:      automationBaseURL + "/webhook/fase1",
			StorageKey:      "chatSessions_fase1",
			Kind:            domain.BotKindChat,
			PricePerMessage: price(0.002),
		},
		{
			ID:              "fase2",
			Name:            "Fase 2 · Contenido",
			Description:     "Genera calendarios y piezas de contenido.",
			IconRef:         "/icons/fase2.png",
			LogoRef:         "/logos/fase2.png",
			WelcomeTitle:    "Planifiquemos tu contenido",
			WebhookURL:      automationBaseURL + "/webhook/fase2",
			StorageKey:      "chatSessions_fase2",
			Kind:            domain.BotKindChat,
			PricePerMessage: price(0.002),
		},
		{
			ID:              "fase3",
			Name:            "Fase 3 · Crecimiento",
			Description:     "Optimiza campañas y mide resultados.",
			IconRef:         "/icons/fase3.png",
			LogoRef:         "/logos/fase3.png",
			WelcomeTitle:    "Hagamos crecer tu marca",
			WebhookURL:      automationBaseURL + "/webhook/fase3",
			StorageKey:      "chatSessions_fase3",
			Kind:            domain.BotKindChat,
			PricePerMessage: price(0.002),
		},
		{
			ID:              "post",
			Name:            "Image Post Studio",
			Description:     "Crea publicaciones con imágenes generadas a medida.",
			IconRef:         "/icons/post.png",
			LogoRef:         "/logos/post.png",
			WelcomeTitle:    "Diseñemos tu próxima publicación",
			WebhookURL:      automationBaseURL + "/webhook/post",
			StorageKey:      "chatSessions_post",
			Kind:            domain.BotKindImage,
			PricePerMessage: price(0.01),
		},
		{
			ID:              "video",
			Name:            "Video Avatar Studio",
			Description:     "Produce vídeos con avatares y voces sintéticas.",
			IconRef:         "/icons/video.png",
			LogoRef:         "/logos/video.png",
			WelcomeTitle:    "Elige tu avatar y empieza a grabar",
			WebhookURL:      automationBaseURL + "/webhook/video",
			StorageKey:      "chatSessions_video",
			Kind:            domain.BotKindVideo,
			PricePerMessage: price(0.05),
		},
	}
}

// PostDimensions are the output sizes offered by the image-post bot.
var PostDimensions = []domain.Dimension{
	{Width: 1080, Height: 1080, Label: "Cuadrado"},
	{Width: 1080, Height: 1350, Label: "Vertical"},
	{Width: 1920, Height: 1080, Label: "Horizontal"},
	{Width: 1080, Height: 1920, Label: "Historia"},
}
