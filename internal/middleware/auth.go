package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/henko-ai/botmarket/internal/domain"
)

type ctxKey string

const SessionKey ctxKey = "session"

// GetSession extracts the resolved session from the request context.
func GetSession(ctx context.Context) *domain.Session {
	s, ok := ctx.Value(SessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return s
}

type sessionResolver interface {
	Resolve(ctx context.Context, rawToken string) (*domain.Session, error)
}

// SessionLoader resolves the request's auth token and injects the
// session into the context. Requests without a valid token pass through
// with no session; the guards below decide what that means per route.
func SessionLoader(auth sessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := auth.Resolve(r.Context(), token)
			if err != nil {
				slog.Debug("session not resolved", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionKey, sess)))
		})
	}
}

// RequireUser guards routes behind authentication: without a session the
// request is redirected to /login (API requests get 401), preserving the
// attempted location.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r.Context()) == nil {
				if isAPIRequest(r) {
					http.Error(w, "authentication required", http.StatusUnauthorized)
					return
				}
				to := "/login?from=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, to, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type denialLogger interface {
	LogEntitlementDenied(email, botID string)
}

// RequireBot guards bot routes behind per-user entitlements: an
// authenticated user without the bot flag is sent back to the
// marketplace (API requests get 403). Evaluated on every request.
func RequireBot(ops denialLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				if isAPIRequest(r) {
					http.Error(w, "authentication required", http.StatusUnauthorized)
					return
				}
				to := "/login?from=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, to, http.StatusFound)
				return
			}

			botID := chi.URLParam(r, "botID")
			if !sess.Entitled(botID) {
				if ops != nil {
					ops.LogEntitlementDenied(sess.User.Email, botID)
				}
				if isAPIRequest(r) {
					http.Error(w, "bot not entitled", http.StatusForbidden)
					return
				}
				http.Redirect(w, r, "/marketplace", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("session_token"); err == nil {
		return c.Value
	}
	return ""
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
