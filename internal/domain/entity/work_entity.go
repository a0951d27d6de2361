package entity

import (
	"time"
)

// Visibility is the read-access mode of a work. Exactly three states;
// the illegal "both flags set" state of the legacy boolean encoding is
// unrepresentable here.
type Visibility string

const (
	VisibilityPrivate     Visibility = "private"
	VisibilityPublic      Visibility = "public"
	VisibilityFriendsOnly Visibility = "friends"
)

// ParseVisibility maps a request value to a Visibility. Unknown or empty
// values fall back to private, the safest default.
func ParseVisibility(s string) Visibility {
	switch s {
	case string(VisibilityPublic):
		return VisibilityPublic
	case string(VisibilityFriendsOnly):
		return VisibilityFriendsOnly
	default:
		return VisibilityPrivate
	}
}

// VisibilityFromFlags decodes the legacy two-boolean encoding
// (isPublic, isFriendsOnly). Both false means private. Both true is an
// upstream construction bug; it resolves to public, the broader of the
// two claims.
func VisibilityFromFlags(isPublic, isFriendsOnly bool) Visibility {
	switch {
	case isPublic:
		return VisibilityPublic
	case isFriendsOnly:
		return VisibilityFriendsOnly
	default:
		return VisibilityPrivate
	}
}

// Valid reports whether v is one of the three defined modes.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityFriendsOnly:
		return true
	}
	return false
}

// Work is a user-authored content item. Works are immutable after
// creation; AuthorName is a snapshot of the author's username at the
// time of posting and is intentionally never re-synced.
type Work struct {
	ID         string
	Title      string
	Content    string
	AuthorID   string
	AuthorName string
	Visibility Visibility
	CreatedAt  time.Time
}
