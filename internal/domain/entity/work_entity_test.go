package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVisibility(t *testing.T) {
	assert.Equal(t, VisibilityPublic, ParseVisibility("public"))
	assert.Equal(t, VisibilityFriendsOnly, ParseVisibility("friends"))
	assert.Equal(t, VisibilityPrivate, ParseVisibility("private"))

	// unknown or empty falls back to private
	assert.Equal(t, VisibilityPrivate, ParseVisibility(""))
	assert.Equal(t, VisibilityPrivate, ParseVisibility("everyone"))
	assert.Equal(t, VisibilityPrivate, ParseVisibility("PUBLIC"))
}

func TestVisibilityFromFlags(t *testing.T) {
	assert.Equal(t, VisibilityPrivate, VisibilityFromFlags(false, false))
	assert.Equal(t, VisibilityPublic, VisibilityFromFlags(true, false))
	assert.Equal(t, VisibilityFriendsOnly, VisibilityFromFlags(false, true))

	// the contradictory legacy state resolves to public
	assert.Equal(t, VisibilityPublic, VisibilityFromFlags(true, true))
}

func TestVisibilityValid(t *testing.T) {
	assert.True(t, VisibilityPrivate.Valid())
	assert.True(t, VisibilityPublic.Valid())
	assert.True(t, VisibilityFriendsOnly.Valid())
	assert.False(t, Visibility("").Valid())
	assert.False(t, Visibility("everyone").Valid())
}

func TestUserHasFriend(t *testing.T) {
	u := &User{ID: "a", Friends: []string{"b", "c"}}
	assert.True(t, u.HasFriend("b"))
	assert.False(t, u.HasFriend("d"))
	assert.False(t, u.HasFriend("a"))

	empty := &User{ID: "x"}
	assert.False(t, empty.HasFriend("b"))
}
