package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/henko-ai/botmarket/internal/domain"
)

// MemoryThreadStore keeps thread collections in process memory. It backs
// the local-storage persistence mode and the test suites; it honors the
// same contract as PGThreadStore.
type MemoryThreadStore struct {
	mu      sync.RWMutex
	threads map[string]*domain.ChatThread
}

func NewMemoryThreadStore() *MemoryThreadStore {
	return &MemoryThreadStore{threads: make(map[string]*domain.ChatThread)}
}

func (s *MemoryThreadStore) ListThreads(_ context.Context, userID int64, botID string) ([]domain.ChatThread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ChatThread
	for _, t := range s.threads {
		if t.UserID == userID && t.BotID == botID {
			out = append(out, cloneThread(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func (s *MemoryThreadStore) GetThread(_ context.Context, userID int64, botID, threadID string) (*domain.ChatThread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[threadID]
	if !ok || t.UserID != userID || t.BotID != botID {
		return nil, domain.ErrThreadNotFound
	}
	c := cloneThread(t)
	return &c, nil
}

func (s *MemoryThreadStore) ActiveThread(_ context.Context, userID int64, botID string) (*domain.ChatThread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.threads {
		if t.UserID == userID && t.BotID == botID && t.Active {
			c := cloneThread(t)
			return &c, nil
		}
	}
	return nil, domain.ErrThreadNotFound
}

func (s *MemoryThreadStore) CreateThread(_ context.Context, t *domain.ChatThread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Active {
		for _, other := range s.threads {
			if other.UserID == t.UserID && other.BotID == t.BotID {
				other.Active = false
			}
		}
	}
	c := cloneThread(t)
	s.threads[t.ID] = &c
	return nil
}

func (s *MemoryThreadStore) SetActive(_ context.Context, userID int64, botID, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if threadID != "" {
		t, ok := s.threads[threadID]
		if !ok || t.UserID != userID || t.BotID != botID {
			return domain.ErrThreadNotFound
		}
	}
	for _, t := range s.threads {
		if t.UserID == userID && t.BotID == botID {
			t.Active = t.ID == threadID
		}
	}
	return nil
}

func (s *MemoryThreadStore) DeleteThread(_ context.Context, userID int64, botID, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[threadID]
	if !ok || t.UserID != userID || t.BotID != botID {
		return domain.ErrThreadNotFound
	}
	delete(s.threads, threadID)
	return nil
}

func (s *MemoryThreadStore) AppendMessage(_ context.Context, threadID string, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[threadID]
	if !ok {
		return domain.ErrThreadNotFound
	}
	t.Messages = append(t.Messages, msg)
	sort.SliceStable(t.Messages, func(i, j int) bool {
		return t.Messages[i].Timestamp.Before(t.Messages[j].Timestamp)
	})
	return nil
}

func (s *MemoryThreadStore) UpdateThreadMeta(_ context.Context, threadID, title string, lastActivity time.Time, addCost decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[threadID]
	if !ok {
		return domain.ErrThreadNotFound
	}
	t.Title = title
	t.LastActivity = lastActivity
	t.UsageCost = t.UsageCost.Add(addCost)
	return nil
}

func cloneThread(t *domain.ChatThread) domain.ChatThread {
	c := *t
	c.Messages = make([]domain.ChatMessage, len(t.Messages))
	copy(c.Messages, t.Messages)
	return c
}
