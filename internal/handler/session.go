package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/henko-ai/botmarket/internal/domain"
	"github.com/henko-ai/botmarket/internal/middleware"
)

type sessionView struct {
	User           userView              `json:"user"`
	AuthToken      string                `json:"authToken"`
	BotPermissions domain.BotPermissions `json:"botPermissions"`
}

type userView struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
}

// handleCreateSession resolves the caller's ID token into a session:
// user row, cached token and bot entitlements. Also opens the push
// channel subscription for the user.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == r.Header.Get("Authorization") {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	sess, err := h.auth.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrExpiredToken) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "session resolution failed")
		return
	}

	h.notify.EnsureStarted(sess.User.ID, sess.AuthToken)

	writeJSON(w, http.StatusOK, sessionView{
		User: userView{
			Email:       sess.User.Email,
			DisplayName: sess.User.DisplayName,
			IsAdmin:     sess.User.IsAdmin,
		},
		AuthToken:      sess.AuthToken,
		BotPermissions: sess.BotPermissions,
	})
}

// handleDeleteSession signs the user out: the cached session is dropped
// and the push subscription closed.
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	h.auth.Invalidate(sess.AuthToken)
	h.notify.Stop(sess.User.ID)
	w.WriteHeader(http.StatusNoContent)
}
