package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	TokenSecret string `env:"TOKEN_SECRET,required"`

	// External collaborators
	PermissionsWebhookURL string `env:"PERMISSIONS_WEBHOOK_URL,required"`
	AutomationBaseURL     string `env:"AUTOMATION_BASE_URL,required"`
	NotifyServerURL       string `env:"NOTIFY_SERVER_URL"`
	MediaAPIBaseURL       string `env:"MEDIA_API_BASE_URL"`
	MediaAPIKey           string `env:"MEDIA_API_KEY"`

	// Server
	Addr string `env:"ADDR" envDefault:":8080"`

	// Admin
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// Telegram ops logging
	OpsBotToken          string `env:"OPS_BOT_TOKEN"`
	LogTelegramChatID    int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError        int    `env:"LOG_TOPIC_ERROR"`
	LogTopicRegistration int    `env:"LOG_TOPIC_REGISTRATION"`
	LogTopicDenied       int    `env:"LOG_TOPIC_DENIED"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(email string) bool {
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}
