package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henko-ai/botmarket/internal/domain"
)

func permissionsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req map[string]string
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.NotEmpty(t, req["email"])

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestPermissionsService_FetchEntitlements(t *testing.T) {
	srv := permissionsServer(t, http.StatusOK, `{"found": true, "bots": {"fase1": true, "video": false}}`)
	defer srv.Close()

	svc := NewPermissionsService(srv.URL)
	perms, err := svc.FetchEntitlements(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.BotPermissions{"fase1": true, "video": false}, perms)
}

func TestPermissionsService_ArrayWrappedBody(t *testing.T) {
	srv := permissionsServer(t, http.StatusOK, `[{"bots": {"onboarding": true}}]`)
	defer srv.Close()

	svc := NewPermissionsService(srv.URL)
	perms, err := svc.FetchEntitlements(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.BotPermissions{"onboarding": true}, perms)
}

func TestPermissionsService_UserNotFound(t *testing.T) {
	srv := permissionsServer(t, http.StatusOK, `{"found": false}`)
	defer srv.Close()

	svc := NewPermissionsService(srv.URL)
	perms, err := svc.FetchEntitlements(context.Background(), "nadie@example.com")
	require.NoError(t, err)
	assert.Empty(t, perms)
	assert.NotNil(t, perms)
}

func TestPermissionsService_MissingBots(t *testing.T) {
	srv := permissionsServer(t, http.StatusOK, `{"found": true}`)
	defer srv.Close()

	svc := NewPermissionsService(srv.URL)
	perms, err := svc.FetchEntitlements(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestPermissionsService_ServerError(t *testing.T) {
	srv := permissionsServer(t, http.StatusInternalServerError, "boom")
	defer srv.Close()

	svc := NewPermissionsService(srv.URL)
	_, err := svc.FetchEntitlements(context.Background(), "ana@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPermissionsService_Unreachable(t *testing.T) {
	srv := permissionsServer(t, http.StatusOK, "{}")
	srv.Close()

	svc := NewPermissionsService(srv.URL)
	_, err := svc.FetchEntitlements(context.Background(), "ana@example.com")
	require.Error(t, err)
}
