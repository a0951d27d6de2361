package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-sns/atelier/internal/domain/entity"
	"github.com/atelier-sns/atelier/internal/domain/repository"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Username: "alice", Password: "hash"}
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.NotNil(t, got.Friends)

	byName, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)
}

func TestUserRepositoryMissIsNilNil(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	got, err := r.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.GetByUsername(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	require.NoError(t, r.Create(ctx, &entity.User{Username: "alice"}))
	err := r.Create(ctx, &entity.User{Username: "alice"})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestUserRepositoryAddFriendIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Username: "alice"}
	require.NoError(t, r.Create(ctx, u))

	require.NoError(t, r.AddFriend(ctx, u.ID, "bob-id"))
	require.NoError(t, r.AddFriend(ctx, u.ID, "bob-id"))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob-id"}, got.Friends)
}

func TestUserRepositoryAddFriendConcurrent(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Username: "alice"}
	require.NoError(t, r.Create(ctx, u))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.AddFriend(ctx, u.ID, "bob-id")
		}()
	}
	wg.Wait()

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob-id"}, got.Friends, "concurrent adds of the same edge must collapse to one")
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Username: "alice"}
	require.NoError(t, r.Create(ctx, u))
	require.NoError(t, r.AddFriend(ctx, u.ID, "x"))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mallory"
	got.Friends[0] = "tampered"

	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, []string{"x"}, again.Friends)
}

func TestUserRepositorySetAvatar(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Username: "alice"}
	require.NoError(t, r.Create(ctx, u))
	require.NoError(t, r.SetAvatar(ctx, u.ID, "https://cdn.example.com/a.png"))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", got.AvatarURL)
}

func TestUserRepositoryListAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Create(ctx, &entity.User{Username: name}))
	}
	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Username)
	assert.Equal(t, "b", all[1].Username)
	assert.Equal(t, "c", all[2].Username)
}
