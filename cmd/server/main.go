package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"

	botmarket "github.com/henko-ai/botmarket"
	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/handler"
	"github.com/henko-ai/botmarket/internal/notify"
	"github.com/henko-ai/botmarket/internal/repository"
	"github.com/henko-ai/botmarket/internal/service"
	"github.com/henko-ai/botmarket/internal/telegram"
	"github.com/henko-ai/botmarket/internal/telemetry"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(botmarket.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Telegram ops channel (optional)
	var ops *telegram.Notifier
	if cfg.OpsBotToken != "" {
		opsBot, err := bot.New(cfg.OpsBotToken)
		if err != nil {
			slog.Error("failed to create ops bot", "error", err)
			os.Exit(1)
		}
		ops = telegram.NewNotifier(opsBot, cfg)
	}

	// Initialize stores and services
	metrics := telemetry.NewMetrics()
	userStore := repository.NewUserStore(pool)
	threadStore := repository.NewPGThreadStore(pool)
	catalog := service.NewCatalog(service.DefaultBots(cfg.AutomationBaseURL))
	permissions := service.NewPermissionsService(cfg.PermissionsWebhookURL)
	authService := service.NewAuthService(cfg, userStore, permissions, ops)
	webhooks := service.NewWebhookService()
	threadService := service.NewThreadService(threadStore, webhooks, metrics)
	mediaService := service.NewMediaService(cfg.MediaAPIBaseURL, cfg.MediaAPIKey)

	// Push channel
	hub := notify.NewHub()
	notifyManager := notify.NewManager(cfg.NotifyServerURL, threadService, hub)
	defer notifyManager.Close()

	// HTTP server
	h := handler.New(handler.Deps{
		Cfg:     cfg,
		Auth:    authService,
		Catalog: catalog,
		Threads: threadService,
		Media:   mediaService,
		Notify:  notifyManager,
		Hub:     hub,
		Ops:     ops,
		Metrics: metrics,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // webhook sends and SSE relays run long
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown", "error", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Addr, "bots", len(catalog.List()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
