// Package notify connects the gateway to the push notification server
// and fans delivered media events out to downstream listeners.
package notify

import (
	"sync"
	"time"
)

// MediaEvent is one push-channel message: an asynchronously generated
// media URL for a user, produced outside the request/response cycle.
type MediaEvent struct {
	BotID     string    `json:"botId,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// URL returns whichever media URL the event carries.
func (e MediaEvent) URL() string {
	if e.VideoURL != "" {
		return e.VideoURL
	}
	return e.ImageURL
}

// Hub fans media events out per user. Slow listeners drop events rather
// than block delivery.
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[chan MediaEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[chan MediaEvent]struct{})}
}

// Subscribe registers a listener for the user's events. The returned
// cancel func must be called on teardown.
func (h *Hub) Subscribe(userID int64, buffer int) (<-chan MediaEvent, func()) {
	ch := make(chan MediaEvent, buffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan MediaEvent]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
	}
	return ch, cancel
}

func (h *Hub) Publish(userID int64, ev MediaEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
			// Drop if listener is full.
		}
	}
}
