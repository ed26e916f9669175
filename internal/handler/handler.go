package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/middleware"
	"github.com/henko-ai/botmarket/internal/notify"
	"github.com/henko-ai/botmarket/internal/service"
	"github.com/henko-ai/botmarket/internal/telegram"
	"github.com/henko-ai/botmarket/internal/telemetry"
)

// Handler holds all dependencies needed by the HTTP handlers.
type Handler struct {
	cfg     *config.Config
	auth    *service.AuthService
	catalog *service.Catalog
	threads *service.ThreadService
	media   *service.MediaService
	notify  *notify.Manager
	hub     *notify.Hub
	ops     *telegram.Notifier
	metrics *telemetry.Metrics
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg     *config.Config
	Auth    *service.AuthService
	Catalog *service.Catalog
	Threads *service.ThreadService
	Media   *service.MediaService
	Notify  *notify.Manager
	Hub     *notify.Hub
	Ops     *telegram.Notifier
	Metrics *telemetry.Metrics
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:     deps.Cfg,
		auth:    deps.Auth,
		catalog: deps.Catalog,
		threads: deps.Threads,
		media:   deps.Media,
		notify:  deps.Notify,
		hub:     deps.Hub,
		ops:     deps.Ops,
		metrics: deps.Metrics,
	}
}

// Router builds the full route tree with the middleware chain.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(h.metrics))
	r.Use(middleware.SessionLoader(h.auth))
	r.Use(middleware.RateLimit(config.RateLimitRegular))

	r.Get("/healthz", h.handleHealthz)
	r.Method("GET", "/metrics", h.metrics.Handler())

	r.Post("/api/session", h.handleCreateSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser())
		r.Delete("/api/session", h.handleDeleteSession)
		r.Get("/api/marketplace", h.handleMarketplace)
		r.Get("/api/events", h.handleEvents)
	})

	r.Route("/api/bots/{botID}", func(r chi.Router) {
		r.Use(middleware.RequireBot(h.ops))
		r.Get("/threads", h.handleListThreads)
		r.Post("/threads", h.handleNewThread)
		r.Get("/threads/{threadID}", h.handleGetThread)
		r.Post("/threads/{threadID}/select", h.handleSelectThread)
		r.Delete("/threads/{threadID}", h.handleDeleteThread)
		r.Post("/messages", h.handleSendMessage)
		r.Get("/avatars", h.handleListAvatars)
		r.Get("/voices", h.handleListVoices)
		r.Get("/dimensions", h.handleListDimensions)
	})

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
