package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobRenderWelcome(t *testing.T) {
	j := Job{To: "a@example.com", Kind: KindWelcome, Data: map[string]string{"username": "alice"}}
	subject, text := j.Render()
	assert.Equal(t, "Welcome to Atelier", subject)
	assert.Contains(t, text, "alice")
}

func TestJobRenderFriendAdded(t *testing.T) {
	j := Job{To: "b@example.com", Kind: KindFriendAdded, Data: map[string]string{"username": "bob", "friend": "alice"}}
	subject, text := j.Render()
	assert.Equal(t, "alice added you as a friend", subject)
	assert.Contains(t, text, "bob")
	assert.Contains(t, text, "alice")
}

func TestJobRenderExplicitOverrides(t *testing.T) {
	j := Job{To: "x@example.com", Kind: KindWelcome, Subject: "custom", Text: "body"}
	subject, text := j.Render()
	assert.Equal(t, "custom", subject)
	assert.Equal(t, "body", text)
}

func TestJobRenderUnknownKind(t *testing.T) {
	j := Job{To: "x@example.com", Kind: "mystery"}
	subject, _ := j.Render()
	assert.Equal(t, "Notification", subject)
}
