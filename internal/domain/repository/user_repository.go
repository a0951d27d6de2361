package repository

import (
	"context"
	"errors"

	"github.com/atelier-sns/atelier/internal/domain/entity"
)

// ErrDuplicateUsername is returned by Create when the username is taken.
// Usernames are unique and case-sensitive.
var ErrDuplicateUsername = errors.New("username already taken")

// UserRepository defines persistence for users and their friend edges.
// Lookups return (nil, nil) on miss; a non-nil error means the storage
// itself failed.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// AddFriend records the directed edge userID -> friendID. Adding an
	// edge that already exists is a no-op. Implementations must apply
	// concurrent adds for the same user without losing either edge.
	AddFriend(ctx context.Context, userID, friendID string) error
	// SetAvatar replaces the stored avatar URL. The rest of the user
	// record is immutable after creation.
	SetAvatar(ctx context.Context, userID, url string) error
	ListAll(ctx context.Context) ([]*entity.User, error)
}
