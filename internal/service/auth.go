package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/domain"
	"github.com/henko-ai/botmarket/internal/telegram"
)

type userDirectory interface {
	FindOrCreate(ctx context.Context, subject, email, displayName string, isAdmin bool) (*domain.User, bool, error)
}

type entitlementSource interface {
	FetchEntitlements(ctx context.Context, email string) (domain.BotPermissions, error)
}

type idClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService is the single source of truth for who is logged in and
// which bots they may use. Each token resolves to a Session holding the
// user, the token itself and the entitlement map; the session is
// published only once all three are set, so consumers never observe a
// token/permission pair belonging to a different identity.
type AuthService struct {
	secret []byte
	cfg    *config.Config
	users  userDirectory
	perms  entitlementSource
	ops    *telegram.Notifier

	mu       sync.Mutex
	sessions map[string]*domain.Session
	// resolveSeq orders concurrent resolves per subject so a slow
	// stale fetch cannot overwrite a fresher session.
	resolveSeq map[string]uint64
}

func NewAuthService(cfg *config.Config, users userDirectory, perms entitlementSource, ops *telegram.Notifier) *AuthService {
	return &AuthService{
		secret:     []byte(cfg.TokenSecret),
		cfg:        cfg,
		users:      users,
		perms:      perms,
		ops:        ops,
		sessions:   make(map[string]*domain.Session),
		resolveSeq: make(map[string]uint64),
	}
}

// Resolve verifies the identity provider's ID token and returns the
// session for it, fetching the user row and bot entitlements on first
// sight. Resolved sessions are cached until the token expires.
func (a *AuthService) Resolve(ctx context.Context, rawToken string) (*domain.Session, error) {
	if rawToken == "" {
		return nil, domain.ErrInvalidToken
	}

	a.mu.Lock()
	if sess, ok := a.sessions[rawToken]; ok && !sess.Expired() {
		a.mu.Unlock()
		return sess, nil
	}
	a.mu.Unlock()

	claims, err := a.verify(rawToken)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.resolveSeq[claims.Subject]++
	seq := a.resolveSeq[claims.Subject]
	a.mu.Unlock()

	user, created, err := a.users.FindOrCreate(ctx, claims.Subject, claims.Email, claims.Name, a.cfg.IsAdmin(claims.Email))
	if err != nil {
		return nil, err
	}
	if created {
		slog.Info("user registered", "subject", user.Subject, "email", user.Email)
		a.ops.LogRegistration(user.Email, user.DisplayName)
	}

	perms := domain.BotPermissions{}
	if user.Email == "" {
		slog.Warn("identity without email, no entitlements", "subject", user.Subject)
	} else if fetched, err := a.perms.FetchEntitlements(ctx, user.Email); err != nil {
		// Fail soft: the user stays logged in with no entitlements.
		slog.Error("fetch bot entitlements", "email", user.Email, "error", err)
		a.ops.LogError(err, "fetch bot entitlements")
	} else {
		perms = fetched
	}

	now := time.Now()
	expiry := now.Add(config.SessionCacheTTL)
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(expiry) {
		expiry = claims.ExpiresAt.Time
	}
	sess := &domain.Session{
		User:           user,
		AuthToken:      rawToken,
		BotPermissions: perms,
		ResolvedAt:     now,
		ExpiresAt:      expiry,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// A newer resolve for this subject superseded us; hand the caller
	// our result but leave the cache to the latest resolve.
	if a.resolveSeq[claims.Subject] == seq {
		a.sessions[rawToken] = sess
	}
	return sess, nil
}

// Invalidate drops the cached session for the token (sign-out).
func (a *AuthService) Invalidate(rawToken string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, rawToken)
}

func (a *AuthService) verify(rawToken string) (*idClaims, error) {
	claims := &idClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
