package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/henko-ai/botmarket/internal/domain"
	"github.com/henko-ai/botmarket/internal/service"
)

func (h *Handler) requireBotKind(w http.ResponseWriter, r *http.Request, kind domain.BotKind) bool {
	bot, err := h.catalog.Get(chi.URLParam(r, "botID"))
	if err != nil || bot.Kind != kind {
		writeError(w, http.StatusNotFound, "not available for this bot")
		return false
	}
	return true
}

func (h *Handler) handleListAvatars(w http.ResponseWriter, r *http.Request) {
	if !h.requireBotKind(w, r, domain.BotKindVideo) {
		return
	}
	avatars, err := h.media.ListAvatars(r.Context())
	if err != nil {
		slog.Error("list avatars", "error", err)
		writeError(w, http.StatusBadGateway, "media service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"avatars": avatars})
}

func (h *Handler) handleListVoices(w http.ResponseWriter, r *http.Request) {
	if !h.requireBotKind(w, r, domain.BotKindVideo) {
		return
	}
	voices, err := h.media.ListVoices(r.Context())
	if err != nil {
		slog.Error("list voices", "error", err)
		writeError(w, http.StatusBadGateway, "media service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"voices": voices})
}

func (h *Handler) handleListDimensions(w http.ResponseWriter, r *http.Request) {
	if !h.requireBotKind(w, r, domain.BotKindImage) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dimensions": service.PostDimensions})
}
