package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChatThread_LastMessage(t *testing.T) {
	empty := &ChatThread{}
	assert.Equal(t, "", empty.LastMessage())

	thread := &ChatThread{Messages: []ChatMessage{
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "buenas"},
	}}
	assert.Equal(t, "buenas", thread.LastMessage())
}

func TestSession_Entitled(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Entitled("fase1"))
	assert.False(t, (&Session{}).Entitled("fase1"))

	sess := &Session{BotPermissions: BotPermissions{"fase1": true, "video": false}}
	assert.True(t, sess.Entitled("fase1"))
	assert.False(t, sess.Entitled("video"))
	assert.False(t, sess.Entitled("desconocido"))
}

func TestSession_Expired(t *testing.T) {
	assert.False(t, (&Session{}).Expired())
	assert.False(t, (&Session{ExpiresAt: time.Now().Add(time.Minute)}).Expired())
	assert.True(t, (&Session{ExpiresAt: time.Now().Add(-time.Minute)}).Expired())
}
