package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/domain"
)

// PermissionsService fetches per-user bot entitlements from the remote
// permissions webhook.
type PermissionsService struct {
	webhookURL string
	httpClient *http.Client
}

func NewPermissionsService(webhookURL string) *PermissionsService {
	return &PermissionsService{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: config.PermissionsTimeout},
	}
}

type permissionsResponse struct {
	Found *bool                 `json:"found"`
	Bots  domain.BotPermissions `json:"bots"`
}

// FetchEntitlements POSTs {email} to the permissions webhook. The webhook
// replies with either a single object or a one-element array shaped as
// {found?, bots: {botId: bool}}. A body with found == false means the
// user is not on the sheet and has no entitlements.
func (s *PermissionsService) FetchEntitlements(ctx context.Context, email string) (domain.BotPermissions, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("permissions request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("permissions webhook status %d: %s", resp.StatusCode, body)
	}

	var parsed permissionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// The webhook wraps the object in a one-element array.
		var arr []permissionsResponse
		if arrErr := json.Unmarshal(body, &arr); arrErr != nil {
			return nil, fmt.Errorf("parse permissions: %w", err)
		}
		if len(arr) == 0 {
			return domain.BotPermissions{}, nil
		}
		parsed = arr[0]
	}

	if parsed.Found != nil && !*parsed.Found {
		return domain.BotPermissions{}, nil
	}
	if parsed.Bots == nil {
		return domain.BotPermissions{}, nil
	}
	return parsed.Bots, nil
}
