package handler

import (
	"net/http"

	"github.com/henko-ai/botmarket/internal/middleware"
)

type marketplaceBot struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	Logo            string `json:"logo"`
	WelcomeTitle    string `json:"welcomeTitle"`
	Kind            string `json:"kind"`
	PricePerMessage string `json:"pricePerMessage"`
	Entitled        bool   `json:"entitled"`
}

// handleMarketplace lists the catalog with the caller's entitlement flag
// per bot.
func (h *Handler) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	bots := h.catalog.List()
	out := make([]marketplaceBot, 0, len(bots))
	for _, b := range bots {
		out = append(out, marketplaceBot{
			ID:              b.ID,
			Name:            b.Name,
			Description:     b.Description,
			Icon:            b.IconRef,
			Logo:            b.LogoRef,
			WelcomeTitle:    b.WelcomeTitle,
			Kind:            string(b.Kind),
			PricePerMessage: b.PricePerMessage.String(),
			Entitled:        sess.Entitled(b.ID),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"bots": out})
}
