package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/botmarket")
	t.Setenv("TOKEN_SECRET", "secret")
	t.Setenv("PERMISSIONS_WEBHOOK_URL", "https://hooks.example.com/permissions")
	t.Setenv("AUTOMATION_BASE_URL", "https://automation.example.com")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_EMAILS", "admin@example.com,jefe@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "secret", cfg.TokenSecret)
	assert.Equal(t, []string{"admin@example.com", "jefe@example.com"}, cfg.AdminEmails)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "placeholder")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"admin@example.com"}}
	assert.True(t, cfg.IsAdmin("admin@example.com"))
	assert.False(t, cfg.IsAdmin("ana@example.com"))
	assert.False(t, (&Config{}).IsAdmin("admin@example.com"))
}
