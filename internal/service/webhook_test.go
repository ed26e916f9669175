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
)

func TestChatRequest_MarshalJSON(t *testing.T) {
	req := ChatRequest{
		UserInput:   "hola",
		ChatHistory: []HistoryEntry{{Role: "user", Content: "previo"}},
		BotID:       "fase1",
		Extra:       map[string]any{"avatarId": "av-9", "width": 1080},
	}

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "hola", body["userInput"])
	assert.Equal(t, "fase1", body["botId"])
	assert.Equal(t, "av-9", body["avatarId"])
	assert.Equal(t, float64(1080), body["width"])
	history, ok := body["chatHistory"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 1)
}

func TestWebhookService_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte("respuesta del bot"))
	}))
	defer srv.Close()

	svc := NewWebhookService()
	reply, err := svc.Send(context.Background(), srv.URL, ChatRequest{UserInput: "hola", BotID: "fase1"})
	require.NoError(t, err)
	assert.Equal(t, "respuesta del bot", reply)
	assert.Equal(t, "hola", got["userInput"])
}

func TestWebhookService_SendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewWebhookService()
	_, err := svc.Send(context.Background(), srv.URL, ChatRequest{UserInput: "hola"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "plain text passes through",
			body: "una respuesta normal",
			want: "una respuesta normal",
		},
		{
			name: "iframe srcdoc",
			body: `<html><body><iframe srcdoc="el contenido real"></iframe></body></html>`,
			want: "el contenido real",
		},
		{
			name: "srcdoc fragment without iframe markup",
			body: `<div srcdoc="fragmento"></div>`,
			want: "fragmento",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
		{
			name: "srcdoc mentioned but never an attribute",
			body: "el atributo srcdoc no aparece",
			want: "el atributo srcdoc no aparece",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReply(tt.body))
		})
	}
}
