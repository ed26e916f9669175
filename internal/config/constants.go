package config

import "time"

const (
	// Webhook request timeout. A hung webhook must not pin a thread
	// forever; a single attempt, no retry.
	WebhookTimeout = 90 * time.Second

	// Permissions webhook timeout
	PermissionsTimeout = 15 * time.Second

	// Media vendor API timeout
	MediaTimeout = 30 * time.Second

	// Resolved sessions are cached for at most this long; the token's
	// own expiry still wins when it is shorter.
	SessionCacheTTL = 1 * time.Hour

	// Default thread title until the first message derives one
	DefaultThreadTitle = "New Chat"

	// Thread titles are derived from the first message, truncated
	TitleSnippetLen = 30

	// Assistant fallbacks
	EmptyReplyFallback   = "No he podido procesar tu solicitud."
	WebhookErrorFallback = "Lo siento, tuve un problema para conectarme. Por favor, intenta de nuevo."

	// Rate limits (requests per minute, per user)
	RateLimitRegular = 30

	// Push channel reconnect delay
	NotifyReconnectDelay = 5 * time.Second

	// SSE relay buffer per subscriber
	EventBufferSize = 16

	// Threads per page in listings
	ThreadsPerPage = 20

	// Telegram ops message limit
	MaxOpsMessageLen = 4000
)
