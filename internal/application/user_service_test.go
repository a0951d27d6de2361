package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-sns/atelier/internal/application"
	"github.com/atelier-sns/atelier/internal/domain/repository"
	"github.com/atelier-sns/atelier/internal/infrastructure/memory"
	"github.com/atelier-sns/atelier/pkg/helpers"
)

func newUserService() *application.UserService {
	return &application.UserService{
		Users: memory.NewUserRepository(),
		JWT:   helpers.NewJWTManager("test-access", "test-refresh", time.Minute, time.Hour),
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	u, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.NotEqual(t, "password123", u.Password, "password must be stored hashed")

	got, err := svc.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "different456", "")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestAuthenticateRejections(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)

	// wrong password and unknown user fail identically
	_, err = svc.Authenticate(ctx, "alice", "wrongwrong")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestLoginIssuesTokens(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)

	u, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
}

func TestAddFriendIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "bob", "password123", "")
	require.NoError(t, err)

	u, err := svc.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, u.Friends)

	u, err = svc.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, u.Friends, "re-adding must not duplicate the edge")

	// the edge is directed: bob's list is untouched
	bAfter, err := svc.GetProfile(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, bAfter.Friends)
}

func TestAddFriendConcurrent(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "bob", "password123", "")
	require.NoError(t, err)
	c, err := svc.Register(ctx, "carol", "password123", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.AddFriend(ctx, a.ID, b.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.AddFriend(ctx, a.ID, c.ID)
		}()
	}
	wg.Wait()

	u, err := svc.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, u.Friends, 2)
	assert.Contains(t, u.Friends, b.ID)
	assert.Contains(t, u.Friends, c.ID)
}

func TestAddFriendSelfDefault(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)

	// default mode: self-add is a silent no-op
	u, err := svc.AddFriend(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, u.Friends)
}

func TestAddFriendStrictMode(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()
	svc.FriendStrict = true

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)

	_, err = svc.AddFriend(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, application.ErrSelfFriend)

	_, err = svc.AddFriend(ctx, a.ID, "ghost-id")
	assert.ErrorIs(t, err, application.ErrUnknownUser)
}

func TestAddFriendUnknownTargetLenient(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)

	// lenient mode stores the edge as-is; it just never matches anyone
	u, err := svc.AddFriend(ctx, a.ID, "ghost-id")
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost-id"}, u.Friends)
}

func TestAddFriendViewerNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.AddFriend(ctx, "nobody", "anyone")
	assert.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestListFriendsSkipsStaleIDs(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "bob", "password123", "")
	require.NoError(t, err)

	_, err = svc.AddFriend(ctx, a.ID, "ghost-id")
	require.NoError(t, err)
	_, err = svc.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)

	friends, err := svc.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, b.ID, friends[0].ID)
}

func TestListOthersExcludesViewer(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	a, err := svc.Register(ctx, "alice", "password123", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "password123", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "carol", "password123", "")
	require.NoError(t, err)

	others, err := svc.ListOthers(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, others, 2)
	for _, u := range others {
		assert.NotEqual(t, a.ID, u.ID)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, application.ErrUserNotFound)
}
