package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/domain"
	"github.com/henko-ai/botmarket/internal/repository"
	"github.com/henko-ai/botmarket/internal/telemetry"
)

// ThreadService manages one user's conversation threads per bot and
// mediates with the bot's webhook. Webhook failures are recovered
// locally: the user always sees exactly one assistant message per send,
// synthesized on error. Store failures are logged and never surfaced;
// in-memory state is not rolled back.
type ThreadService struct {
	store    repository.ThreadStore
	webhooks *WebhookService
	metrics  *telemetry.Metrics

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewThreadService(store repository.ThreadStore, webhooks *WebhookService, metrics *telemetry.Metrics) *ThreadService {
	return &ThreadService{
		store:    store,
		webhooks: webhooks,
		metrics:  metrics,
		inFlight: make(map[string]bool),
	}
}

func (s *ThreadService) List(ctx context.Context, userID int64, botID string) ([]domain.ChatThread, error) {
	return s.store.ListThreads(ctx, userID, botID)
}

func (s *ThreadService) Get(ctx context.Context, userID int64, botID, threadID string) (*domain.ChatThread, error) {
	return s.store.GetThread(ctx, userID, botID, threadID)
}

// NewThread inserts a fresh empty thread and makes it active.
func (s *ThreadService) NewThread(ctx context.Context, userID int64, botID string) (*domain.ChatThread, error) {
	now := time.Now()
	t := &domain.ChatThread{
		ID:           uuid.NewString(),
		UserID:       userID,
		BotID:        botID,
		Title:        config.DefaultThreadTitle,
		UsageCost:    decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.store.CreateThread(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SelectThread makes the given thread active. Selecting the already
// active thread is a no-op.
func (s *ThreadService) SelectThread(ctx context.Context, userID int64, botID, threadID string) error {
	if active, err := s.store.ActiveThread(ctx, userID, botID); err == nil && active.ID == threadID {
		return nil
	}
	return s.store.SetActive(ctx, userID, botID, threadID)
}

// DeleteThread removes the thread. If it was active, the next most
// recent remaining thread becomes active; with none remaining, no
// thread is active.
func (s *ThreadService) DeleteThread(ctx context.Context, userID int64, botID, threadID string) error {
	wasActive := false
	if active, err := s.store.ActiveThread(ctx, userID, botID); err == nil {
		wasActive = active.ID == threadID
	}

	if err := s.store.DeleteThread(ctx, userID, botID, threadID); err != nil {
		return err
	}
	if !wasActive {
		return nil
	}

	remaining, err := s.store.ListThreads(ctx, userID, botID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}
	return s.store.SetActive(ctx, userID, botID, remaining[0].ID)
}

// Sending reports whether a send is in flight for the thread.
func (s *ThreadService) Sending(threadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[threadID]
}

func (s *ThreadService) acquire(threadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[threadID] {
		return false
	}
	s.inFlight[threadID] = true
	return true
}

func (s *ThreadService) release(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, threadID)
}

// SendMessage appends the user message to the active thread (creating
// one if none is active), forwards it to the bot's webhook and appends
// the reply. Blank input is a no-op.
func (s *ThreadService) SendMessage(ctx context.Context, userID int64, bot domain.BotConfig, text string, extra map[string]any) (*domain.ChatThread, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	thread, err := s.store.ActiveThread(ctx, userID, bot.ID)
	if err == domain.ErrThreadNotFound {
		thread, err = s.NewThread(ctx, userID, bot.ID)
	}
	if err != nil {
		return nil, err
	}

	if !s.acquire(thread.ID) {
		return nil, domain.ErrActiveRequest
	}
	defer s.release(thread.ID)

	history := make([]HistoryEntry, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		history = append(history, HistoryEntry{Role: m.Role, Content: m.Content})
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
	thread.Messages = append(thread.Messages, userMsg)
	thread.Title = deriveTitle(thread.Title, text, len(history))
	thread.LastActivity = userMsg.Timestamp
	thread.UsageCost = thread.UsageCost.Add(bot.PricePerMessage)
	s.persistMessage(ctx, thread, userMsg, bot.PricePerMessage)

	start := time.Now()
	raw, err := s.webhooks.Send(ctx, bot.WebhookURL, ChatRequest{
		UserInput:   text,
		ChatHistory: history,
		BotID:       bot.ID,
		Extra:       extra,
	})

	var reply string
	if err != nil {
		slog.Error("webhook send failed", "bot", bot.ID, "thread", thread.ID, "error", err)
		s.metrics.ObserveWebhook(bot.ID, "error", time.Since(start))
		reply = config.WebhookErrorFallback
	} else {
		s.metrics.ObserveWebhook(bot.ID, "ok", time.Since(start))
		reply = ExtractReply(raw)
		if reply == "" {
			reply = config.EmptyReplyFallback
		}
	}

	botMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	thread.Messages = append(thread.Messages, botMsg)
	thread.LastActivity = botMsg.Timestamp
	s.persistMessage(ctx, thread, botMsg, decimal.Zero)

	return thread, nil
}

// AppendMediaMessage delivers an asynchronously generated media URL from
// the push channel into the user's active thread for the bot, as an
// assistant message outside the request/response cycle.
func (s *ThreadService) AppendMediaMessage(ctx context.Context, userID int64, botID, mediaURL string) (*domain.ChatThread, error) {
	thread, err := s.store.ActiveThread(ctx, userID, botID)
	if err == domain.ErrThreadNotFound {
		thread, err = s.NewThread(ctx, userID, botID)
	}
	if err != nil {
		return nil, err
	}

	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   mediaURL,
		Timestamp: time.Now(),
	}
	thread.Messages = append(thread.Messages, msg)
	thread.LastActivity = msg.Timestamp
	s.persistMessage(ctx, thread, msg, decimal.Zero)
	return thread, nil
}

func (s *ThreadService) persistMessage(ctx context.Context, thread *domain.ChatThread, msg domain.ChatMessage, addCost decimal.Decimal) {
	if err := s.store.AppendMessage(ctx, thread.ID, msg); err != nil {
		slog.Error("persist message", "thread", thread.ID, "error", err)
		return
	}
	if err := s.store.UpdateThreadMeta(ctx, thread.ID, thread.Title, thread.LastActivity, addCost); err != nil {
		slog.Error("persist thread meta", "thread", thread.ID, "error", err)
	}
}

// deriveTitle replaces the placeholder title with the first message's
// leading characters, once, on the first message.
func deriveTitle(current, text string, priorMessages int) string {
	if priorMessages > 0 {
		return current
	}
	if current != config.DefaultThreadTitle && current != "Temporary Chat" {
		return current
	}
	runes := []rune(text)
	if len(runes) > config.TitleSnippetLen {
		return string(runes[:config.TitleSnippetLen]) + "..."
	}
	return text
}
