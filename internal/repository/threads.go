package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/henko-ai/botmarket/internal/domain"
)

// ThreadStore persists chat threads per (user, bot) collection. Threads
// come back ordered by last activity descending, messages by timestamp
// ascending.
type ThreadStore interface {
	ListThreads(ctx context.Context, userID int64, botID string) ([]domain.ChatThread, error)
	GetThread(ctx context.Context, userID int64, botID, threadID string) (*domain.ChatThread, error)
	ActiveThread(ctx context.Context, userID int64, botID string) (*domain.ChatThread, error)
	CreateThread(ctx context.Context, t *domain.ChatThread) error
	SetActive(ctx context.Context, userID int64, botID, threadID string) error
	DeleteThread(ctx context.Context, userID int64, botID, threadID string) error
	AppendMessage(ctx context.Context, threadID string, msg domain.ChatMessage) error
	UpdateThreadMeta(ctx context.Context, threadID, title string, lastActivity time.Time, addCost decimal.Decimal) error
}

type PGThreadStore struct {
	db *pgxpool.Pool
}

func NewPGThreadStore(db *pgxpool.Pool) *PGThreadStore {
	return &PGThreadStore{db: db}
}

const threadColumns = `id, user_id, bot_id, title, usage_cost, is_active, created_at, last_activity`

func scanThread(row pgx.Row) (*domain.ChatThread, error) {
	var t domain.ChatThread
	err := row.Scan(&t.ID, &t.UserID, &t.BotID, &t.Title, &t.UsageCost, &t.Active, &t.CreatedAt, &t.LastActivity)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PGThreadStore) ListThreads(ctx context.Context, userID int64, botID string) ([]domain.ChatThread, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+threadColumns+` FROM chat_threads
		 WHERE user_id = $1 AND bot_id = $2
		 ORDER BY last_activity DESC`, userID, botID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.ChatThread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	for i := range threads {
		msgs, err := s.messages(ctx, threads[i].ID)
		if err != nil {
			return nil, err
		}
		threads[i].Messages = msgs
	}
	return threads, nil
}

func (s *PGThreadStore) GetThread(ctx context.Context, userID int64, botID, threadID string) (*domain.ChatThread, error) {
	t, err := scanThread(s.db.QueryRow(ctx,
		`SELECT `+threadColumns+` FROM chat_threads
		 WHERE id = $1 AND user_id = $2 AND bot_id = $3`, threadID, userID, botID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrThreadNotFound
		}
		return nil, fmt.Errorf("get thread: %w", err)
	}
	t.Messages, err = s.messages(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PGThreadStore) ActiveThread(ctx context.Context, userID int64, botID string) (*domain.ChatThread, error) {
	t, err := scanThread(s.db.QueryRow(ctx,
		`SELECT `+threadColumns+` FROM chat_threads
		 WHERE user_id = $1 AND bot_id = $2 AND is_active`, userID, botID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrThreadNotFound
		}
		return nil, fmt.Errorf("get active thread: %w", err)
	}
	t.Messages, err = s.messages(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PGThreadStore) CreateThread(ctx context.Context, t *domain.ChatThread) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if t.Active {
		if _, err := tx.Exec(ctx,
			`UPDATE chat_threads SET is_active = FALSE
			 WHERE user_id = $1 AND bot_id = $2 AND is_active`, t.UserID, t.BotID); err != nil {
			return fmt.Errorf("clear active thread: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO chat_threads (id, user_id, bot_id, title, usage_cost, is_active, created_at, last_activity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, t.BotID, t.Title, t.UsageCost, t.Active, t.CreatedAt, t.LastActivity)
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}
	return tx.Commit(ctx)
}

// SetActive marks the given thread active for its (user, bot) pair.
// An empty threadID clears the active thread.
func (s *PGThreadStore) SetActive(ctx context.Context, userID int64, botID, threadID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE chat_threads SET is_active = FALSE
		 WHERE user_id = $1 AND bot_id = $2 AND is_active`, userID, botID); err != nil {
		return fmt.Errorf("clear active thread: %w", err)
	}

	if threadID != "" {
		tag, err := tx.Exec(ctx,
			`UPDATE chat_threads SET is_active = TRUE
			 WHERE id = $1 AND user_id = $2 AND bot_id = $3`, threadID, userID, botID)
		if err != nil {
			return fmt.Errorf("set active thread: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrThreadNotFound
		}
	}
	return tx.Commit(ctx)
}

func (s *PGThreadStore) DeleteThread(ctx context.Context, userID int64, botID, threadID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM chat_threads WHERE id = $1 AND user_id = $2 AND bot_id = $3`,
		threadID, userID, botID)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrThreadNotFound
	}
	return nil
}

func (s *PGThreadStore) AppendMessage(ctx context.Context, threadID string, msg domain.ChatMessage) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO thread_messages (id, thread_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, threadID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *PGThreadStore) UpdateThreadMeta(ctx context.Context, threadID, title string, lastActivity time.Time, addCost decimal.Decimal) error {
	_, err := s.db.Exec(ctx,
		`UPDATE chat_threads
		 SET title = $2, last_activity = $3, usage_cost = usage_cost + $4
		 WHERE id = $1`,
		threadID, title, lastActivity, addCost)
	if err != nil {
		return fmt.Errorf("update thread meta: %w", err)
	}
	return nil
}

func (s *PGThreadStore) messages(ctx context.Context, threadID string) ([]domain.ChatMessage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, role, content, created_at FROM thread_messages
		 WHERE thread_id = $1 ORDER BY created_at, id`, threadID)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	return msgs, nil
}
