package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henko-ai/botmarket/internal/domain"
)

func seedThread(t *testing.T, s *MemoryThreadStore, id string, userID int64, botID string, active bool, lastActivity time.Time) {
	t.Helper()
	require.NoError(t, s.CreateThread(context.Background(), &domain.ChatThread{
		ID:           id,
		UserID:       userID,
		BotID:        botID,
		Title:        "New Chat",
		UsageCost:    decimal.Zero,
		Active:       active,
		CreatedAt:    lastActivity,
		LastActivity: lastActivity,
	}))
}

func TestMemoryThreadStore_ListOrdering(t *testing.T) {
	s := NewMemoryThreadStore()
	base := time.Now()

	seedThread(t, s, "old", 1, "fase1", false, base.Add(-2*time.Hour))
	seedThread(t, s, "new", 1, "fase1", false, base)
	seedThread(t, s, "mid", 1, "fase1", false, base.Add(-time.Hour))
	seedThread(t, s, "other-bot", 1, "fase2", false, base)
	seedThread(t, s, "other-user", 2, "fase1", false, base)

	threads, err := s.ListThreads(context.Background(), 1, "fase1")
	require.NoError(t, err)
	require.Len(t, threads, 3)
	assert.Equal(t, "new", threads[0].ID)
	assert.Equal(t, "mid", threads[1].ID)
	assert.Equal(t, "old", threads[2].ID)
}

func TestMemoryThreadStore_CreateActiveDeactivatesOthers(t *testing.T) {
	s := NewMemoryThreadStore()
	now := time.Now()

	seedThread(t, s, "a", 1, "fase1", true, now)
	seedThread(t, s, "b", 1, "fase1", true, now)

	active, err := s.ActiveThread(context.Background(), 1, "fase1")
	require.NoError(t, err)
	assert.Equal(t, "b", active.ID)

	a, err := s.GetThread(context.Background(), 1, "fase1", "a")
	require.NoError(t, err)
	assert.False(t, a.Active)
}

func TestMemoryThreadStore_SetActive(t *testing.T) {
	s := NewMemoryThreadStore()
	now := time.Now()
	ctx := context.Background()

	seedThread(t, s, "a", 1, "fase1", true, now)
	seedThread(t, s, "b", 1, "fase1", false, now)

	require.NoError(t, s.SetActive(ctx, 1, "fase1", "b"))
	active, err := s.ActiveThread(ctx, 1, "fase1")
	require.NoError(t, err)
	assert.Equal(t, "b", active.ID)

	// Empty target clears the active flag for the whole collection.
	require.NoError(t, s.SetActive(ctx, 1, "fase1", ""))
	_, err = s.ActiveThread(ctx, 1, "fase1")
	assert.ErrorIs(t, err, domain.ErrThreadNotFound)

	assert.ErrorIs(t, s.SetActive(ctx, 1, "fase1", "missing"), domain.ErrThreadNotFound)
	assert.ErrorIs(t, s.SetActive(ctx, 2, "fase1", "a"), domain.ErrThreadNotFound)
}

func TestMemoryThreadStore_Delete(t *testing.T) {
	s := NewMemoryThreadStore()
	ctx := context.Background()

	seedThread(t, s, "a", 1, "fase1", false, time.Now())

	// Another user cannot delete the thread.
	assert.ErrorIs(t, s.DeleteThread(ctx, 2, "fase1", "a"), domain.ErrThreadNotFound)

	require.NoError(t, s.DeleteThread(ctx, 1, "fase1", "a"))
	_, err := s.GetThread(ctx, 1, "fase1", "a")
	assert.ErrorIs(t, err, domain.ErrThreadNotFound)
}

func TestMemoryThreadStore_AppendMessageOrdering(t *testing.T) {
	s := NewMemoryThreadStore()
	ctx := context.Background()
	base := time.Now()

	seedThread(t, s, "a", 1, "fase1", true, base)

	// Push-channel events can arrive out of order; reads come back sorted
	// by timestamp.
	require.NoError(t, s.AppendMessage(ctx, "a", domain.ChatMessage{ID: "m2", Role: domain.RoleAssistant, Content: "segundo", Timestamp: base.Add(2 * time.Second)}))
	require.NoError(t, s.AppendMessage(ctx, "a", domain.ChatMessage{ID: "m1", Role: domain.RoleUser, Content: "primero", Timestamp: base.Add(time.Second)}))

	thread, err := s.GetThread(ctx, 1, "fase1", "a")
	require.NoError(t, err)
	require.Len(t, thread.Messages, 2)
	assert.Equal(t, "m1", thread.Messages[0].ID)
	assert.Equal(t, "m2", thread.Messages[1].ID)

	assert.ErrorIs(t, s.AppendMessage(ctx, "missing", domain.ChatMessage{ID: "x"}), domain.ErrThreadNotFound)
}

func TestMemoryThreadStore_UpdateThreadMeta(t *testing.T) {
	s := NewMemoryThreadStore()
	ctx := context.Background()
	base := time.Now()

	seedThread(t, s, "a", 1, "fase1", true, base)

	later := base.Add(time.Minute)
	require.NoError(t, s.UpdateThreadMeta(ctx, "a", "hola bot", later, decimal.RequireFromString("0.05")))
	require.NoError(t, s.UpdateThreadMeta(ctx, "a", "hola bot", later, decimal.RequireFromString("0.05")))

	thread, err := s.GetThread(ctx, 1, "fase1", "a")
	require.NoError(t, err)
	assert.Equal(t, "hola bot", thread.Title)
	assert.True(t, thread.LastActivity.Equal(later))
	assert.True(t, thread.UsageCost.Equal(decimal.RequireFromString("0.1")))
}

func TestMemoryThreadStore_CloneIsolation(t *testing.T) {
	s := NewMemoryThreadStore()
	ctx := context.Background()

	seedThread(t, s, "a", 1, "fase1", true, time.Now())
	require.NoError(t, s.AppendMessage(ctx, "a", domain.ChatMessage{ID: "m1", Role: domain.RoleUser, Content: "hola", Timestamp: time.Now()}))

	thread, err := s.GetThread(ctx, 1, "fase1", "a")
	require.NoError(t, err)
	thread.Messages[0].Content = "mutated"
	thread.Title = "mutated"

	again, err := s.GetThread(ctx, 1, "fase1", "a")
	require.NoError(t, err)
	assert.Equal(t, "hola", again.Messages[0].Content)
	assert.Equal(t, "New Chat", again.Title)
}
