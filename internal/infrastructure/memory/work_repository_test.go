package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-sns/atelier/internal/domain/entity"
)

func TestWorkRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewWorkRepository()

	w := &entity.Work{Title: "t", Content: "c", AuthorID: "a", Visibility: entity.VisibilityPublic}
	require.NoError(t, r.Create(ctx, w))
	require.NotEmpty(t, w.ID)

	got, err := r.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t", got.Title)

	missing, err := r.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWorkRepositoryListByAuthor(t *testing.T) {
	ctx := context.Background()
	r := NewWorkRepository()

	require.NoError(t, r.Create(ctx, &entity.Work{Title: "first", AuthorID: "a"}))
	require.NoError(t, r.Create(ctx, &entity.Work{Title: "other", AuthorID: "b"}))
	require.NoError(t, r.Create(ctx, &entity.Work{Title: "second", AuthorID: "a"}))

	works, err := r.ListByAuthor(ctx, "a")
	require.NoError(t, err)
	require.Len(t, works, 2)
	assert.Equal(t, "first", works[0].Title)
	assert.Equal(t, "second", works[1].Title)
}

func TestWorkRepositoryListAllCreationOrder(t *testing.T) {
	ctx := context.Background()
	r := NewWorkRepository()

	for _, title := range []string{"1", "2", "3"} {
		require.NoError(t, r.Create(ctx, &entity.Work{Title: title, AuthorID: "a"}))
	}
	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].Title)
	assert.Equal(t, "3", all[2].Title)
}
