package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/middleware"
)

// handleEvents relays the user's push-channel media events downstream as
// a server-sent event stream.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sess := middleware.GetSession(r.Context())
	events, cancel := h.hub.Subscribe(sess.User.ID, config.EventBufferSize)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
