package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/henko-ai/botmarket/internal/config"
)

// WebhookService mediates with the per-bot automation webhooks. A single
// attempt per send, bounded by WebhookTimeout; no retry, no backoff.
type WebhookService struct {
	httpClient *http.Client
}

func NewWebhookService() *WebhookService {
	return &WebhookService{
		httpClient: &http.Client{Timeout: config.WebhookTimeout},
	}
}

type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the webhook request body. Extra carries variant-specific
// side-channel fields (avatarId, voiceId, output dimensions) merged into
// the top-level JSON object.
type ChatRequest struct {
	UserInput   string
	ChatHistory []HistoryEntry
	BotID       string
	Extra       map[string]any
}

func (r ChatRequest) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"userInput":   r.UserInput,
		"chatHistory": r.ChatHistory,
		"botId":       r.BotID,
	}
	for k, v := range r.Extra {
		body[k] = v
	}
	return json.Marshal(body)
}

// Send POSTs the chat request to the bot's webhook and returns the raw
// response body as text.
func (s *WebhookService) Send(ctx context.Context, webhookURL string, chatReq ChatRequest) (string, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return string(body), nil
}

var srcdocPattern = regexp.MustCompile(`srcdoc="([^"]*)"`)

// ExtractReply pulls the embedded srcdoc payload out of an HTML-wrapped
// webhook reply. Plain-text replies come back unchanged.
func ExtractReply(body string) string {
	if strings.Contains(body, "srcdoc") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err == nil {
			if val, ok := doc.Find("iframe[srcdoc]").First().Attr("srcdoc"); ok {
				return val
			}
		}
		// Fragment the HTML parser did not keep an iframe for
		if m := srcdocPattern.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	return body
}
