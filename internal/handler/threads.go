package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/henko-ai/botmarket/internal/domain"
	"github.com/henko-ai/botmarket/internal/middleware"
)

type messageView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// threadView mirrors the document-store session shape.
type threadView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	LastMessage string        `json:"lastMessage"`
	Timestamp   time.Time     `json:"timestamp"`
	Messages    []messageView `json:"messages"`
	UsageCost   string        `json:"usageCost"`
	Active      bool          `json:"active"`
	Sending     bool          `json:"sending"`
}

func (h *Handler) threadToView(t *domain.ChatThread) threadView {
	msgs := make([]messageView, 0, len(t.Messages))
	for _, m := range t.Messages {
		msgs = append(msgs, messageView{
			ID:        m.ID,
			Content:   m.Content,
			Role:      m.Role,
			Timestamp: m.Timestamp,
		})
	}
	return threadView{
		ID:          t.ID,
		Title:       t.Title,
		LastMessage: t.LastMessage(),
		Timestamp:   t.LastActivity,
		Messages:    msgs,
		UsageCost:   t.UsageCost.String(),
		Active:      t.Active,
		Sending:     h.threads.Sending(t.ID),
	}
}

func (h *Handler) handleListThreads(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	botID := chi.URLParam(r, "botID")

	threads, err := h.threads.List(r.Context(), sess.User.ID, botID)
	if err != nil {
		slog.Error("list threads", "bot", botID, "error", err)
		writeError(w, http.StatusInternalServerError, "list threads failed")
		return
	}

	out := make([]threadView, 0, len(threads))
	for i := range threads {
		out = append(out, h.threadToView(&threads[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": out})
}

func (h *Handler) handleNewThread(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	botID := chi.URLParam(r, "botID")

	t, err := h.threads.NewThread(r.Context(), sess.User.ID, botID)
	if err != nil {
		slog.Error("new thread", "bot", botID, "error", err)
		writeError(w, http.StatusInternalServerError, "create thread failed")
		return
	}
	writeJSON(w, http.StatusCreated, h.threadToView(t))
}

func (h *Handler) handleGetThread(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	botID := chi.URLParam(r, "botID")
	threadID := chi.URLParam(r, "threadID")

	t, err := h.threads.Get(r.Context(), sess.User.ID, botID, threadID)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread not found")
			return
		}
		slog.Error("get thread", "thread", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "get thread failed")
		return
	}
	writeJSON(w, http.StatusOK, h.threadToView(t))
}

func (h *Handler) handleSelectThread(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	botID := chi.URLParam(r, "botID")
	threadID := chi.URLParam(r, "threadID")

	if err := h.threads.SelectThread(r.Context(), sess.User.ID, botID, threadID); err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread not found")
			return
		}
		slog.Error("select thread", "thread", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "select thread failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	botID := chi.URLParam(r, "botID")
	threadID := chi.URLParam(r, "threadID")

	if err := h.threads.DeleteThread(r.Context(), sess.User.ID, botID, threadID); err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			writeError(w, http.StatusNotFound, "thread not found")
			return
		}
		slog.Error("delete thread", "thread", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete thread failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
