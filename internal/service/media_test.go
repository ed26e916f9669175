package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/avatars", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"avatars":[
			{"avatar_id":"av-1","avatar_name":"Clara","gender":"female","preview_image_url":"https://cdn.example.com/av1.png"},
			{"avatar_id":"av-2","avatar_name":"Diego","gender":"male","preview_image_url":"https://cdn.example.com/av2.png"}
		]}}`))
	})
	mux.HandleFunc("/api/voices", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"voices":[
			{"voice_id":"v-1","name":"Lucía","language":"Spanish","gender":"Female"},
			{"voice_id":"v-2","name":"Robot","language":"Spanish","gender":"unknown"},
			{"voice_id":"v-3","name":"Mario","language":"Spanish","gender":"MALE"}
		]}}`))
	})
	return httptest.NewServer(mux)
}

func TestMediaService_ListAvatars(t *testing.T) {
	srv := mediaServer(t)
	defer srv.Close()

	svc := NewMediaService(srv.URL, "test-key")
	avatars, err := svc.ListAvatars(context.Background())
	require.NoError(t, err)
	require.Len(t, avatars, 2)
	assert.Equal(t, "av-1", avatars[0].AvatarID)
	assert.Equal(t, "Clara", avatars[0].AvatarName)
}

func TestMediaService_ListVoices(t *testing.T) {
	srv := mediaServer(t)
	defer srv.Close()

	svc := NewMediaService(srv.URL, "test-key")
	voices, err := svc.ListVoices(context.Background())
	require.NoError(t, err)

	// Genders are lowercased and anything but male/female is dropped.
	require.Len(t, voices, 2)
	assert.Equal(t, "female", voices[0].Gender)
	assert.Equal(t, "male", voices[1].Gender)
}

func TestMediaService_VendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewMediaService(srv.URL, "test-key")
	_, err := svc.ListAvatars(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
