package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/henko-ai/botmarket/internal/domain"
	"github.com/henko-ai/botmarket/internal/middleware"
)

type sendMessageRequest struct {
	Text     string `json:"text"`
	AvatarID string `json:"avatarId,omitempty"`
	VoiceID  string `json:"voiceId,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// extra returns the variant side-channel fields to merge into the
// webhook request body.
func (req sendMessageRequest) extra() map[string]any {
	extra := map[string]any{}
	if req.AvatarID != "" {
		extra["avatarId"] = req.AvatarID
	}
	if req.VoiceID != "" {
		extra["voiceId"] = req.VoiceID
	}
	if req.Width > 0 && req.Height > 0 {
		extra["width"] = req.Width
		extra["height"] = req.Height
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

// handleSendMessage forwards a user message to the bot's webhook through
// the thread manager. Blank input returns the unchanged state.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	botID := chi.URLParam(r, "botID")

	bot, err := h.catalog.Get(botID)
	if err != nil {
		writeError(w, http.StatusNotFound, "bot not found")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	thread, err := h.threads.SendMessage(r.Context(), sess.User.ID, bot, req.Text, req.extra())
	if err != nil {
		if errors.Is(err, domain.ErrActiveRequest) {
			writeError(w, http.StatusConflict, "a request is already in flight for this thread")
			return
		}
		slog.Error("send message", "bot", botID, "error", err)
		writeError(w, http.StatusInternalServerError, "send message failed")
		return
	}
	if thread == nil {
		// Blank input is a no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, h.threadToView(thread))
}
