package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/domain"
)

type threadAppender interface {
	AppendMediaMessage(ctx context.Context, userID int64, botID, mediaURL string) (*domain.ChatThread, error)
}

// Manager keeps one long-lived SSE subscription to the notification
// server per signed-in user. A subscription opens when a session's auth
// token becomes available and closes on sign-out or shutdown. Delivered
// media URLs are appended to the user's active thread as assistant
// messages and relayed through the hub.
type Manager struct {
	serverURL  string
	threads    threadAppender
	hub        *Hub
	httpClient *http.Client

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

func NewManager(serverURL string, threads threadAppender, hub *Hub) *Manager {
	return &Manager{
		serverURL: serverURL,
		threads:   threads,
		hub:       hub,
		// No overall timeout: the event stream stays open until the
		// subscription is torn down.
		httpClient: &http.Client{},
		cancels:    make(map[int64]context.CancelFunc),
	}
}

// EnsureStarted opens the user's subscription if it is not already
// running. The subscription outlives the request that triggered it and
// runs until Stop or Close.
func (m *Manager) EnsureStarted(userID int64, authToken string) {
	if m.serverURL == "" || authToken == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.cancels[userID]; running {
		return
	}

	subCtx, cancel := context.WithCancel(context.Background())
	m.cancels[userID] = cancel
	go m.run(subCtx, userID, authToken)
}

// Stop tears down the user's subscription (sign-out, token loss).
func (m *Manager) Stop(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[userID]; ok {
		cancel()
		delete(m.cancels, userID)
	}
}

// Close stops every subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
}

func (m *Manager) run(ctx context.Context, userID int64, authToken string) {
	streamURL := fmt.Sprintf("%s/events?token=%s", m.serverURL, url.QueryEscape(authToken))
	for {
		if err := m.stream(ctx, userID, streamURL); err != nil && ctx.Err() == nil {
			slog.Error("push channel disconnected", "user_id", userID, "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(config.NotifyReconnectDelay):
		}
	}
}

func (m *Manager) stream(ctx context.Context, userID int64, streamURL string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", streamURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification server status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		m.handleEvent(ctx, userID, strings.TrimSpace(data))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

func (m *Manager) handleEvent(ctx context.Context, userID int64, data string) {
	var ev MediaEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		slog.Warn("unparseable push event", "user_id", userID, "error", err)
		return
	}
	if ev.URL() == "" {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.BotID == "" {
		// Events predating the botId field: videos belong to the
		// video bot, images to the post bot.
		if ev.VideoURL != "" {
			ev.BotID = "video"
		} else {
			ev.BotID = "post"
		}
	}

	if _, err := m.threads.AppendMediaMessage(ctx, userID, ev.BotID, ev.URL()); err != nil {
		slog.Error("append media message", "user_id", userID, "bot", ev.BotID, "error", err)
	}
	m.hub.Publish(userID, ev)
}
