package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/henko-ai/botmarket/internal/domain"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, subject, email, display_name, is_admin, last_seen, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.DisplayName, &u.IsAdmin, &u.LastSeen, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindOrCreate loads the user for an identity-provider subject, creating
// the row on first sight. The second return value reports whether the
// user was just registered.
func (s *UserStore) FindOrCreate(ctx context.Context, subject, email, displayName string, isAdmin bool) (*domain.User, bool, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject = $1`, subject))
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	u, err = scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (subject, email, display_name, is_admin)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (subject) DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
		 RETURNING `+userColumns, subject, email, displayName, isAdmin))
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return u, true, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *UserStore) TouchLastSeen(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET last_seen = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}
