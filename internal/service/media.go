package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/henko-ai/botmarket/internal/config"
	"github.com/henko-ai/botmarket/internal/domain"
)

// MediaService proxies the avatar/voice options for the video bot from
// the media vendor API.
type MediaService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewMediaService(baseURL, apiKey string) *MediaService {
	return &MediaService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: config.MediaTimeout},
	}
}

func (s *MediaService) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("media request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("media api status %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse media response: %w", err)
	}
	return nil
}

func (s *MediaService) ListAvatars(ctx context.Context) ([]domain.Avatar, error) {
	var result struct {
		Data struct {
			Avatars []domain.Avatar `json:"avatars"`
		} `json:"data"`
	}
	if err := s.get(ctx, "/api/avatars", &result); err != nil {
		return nil, err
	}
	if result.Data.Avatars == nil {
		return []domain.Avatar{}, nil
	}
	return result.Data.Avatars, nil
}

// ListVoices normalizes genders to lowercase and keeps only male/female
// voices, the way the picker expects them.
func (s *MediaService) ListVoices(ctx context.Context) ([]domain.Voice, error) {
	var result struct {
		Data struct {
			Voices []domain.Voice `json:"voices"`
		} `json:"data"`
	}
	if err := s.get(ctx, "/api/voices", &result); err != nil {
		return nil, err
	}

	voices := make([]domain.Voice, 0, len(result.Data.Voices))
	for _, v := range result.Data.Voices {
		v.Gender = strings.ToLower(v.Gender)
		if v.Gender != "male" && v.Gender != "female" {
			continue
		}
		voices = append(voices, v)
	}
	return voices, nil
}
