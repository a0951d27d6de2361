package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-sns/atelier/internal/domain/entity"
)

func work(author string, vis entity.Visibility) *entity.Work {
	return &entity.Work{ID: "w-" + author + "-" + string(vis), AuthorID: author, Visibility: vis}
}

func TestCanViewPublic(t *testing.T) {
	stranger := &entity.User{ID: "stranger"}
	assert.True(t, CanView(stranger, work("author", entity.VisibilityPublic)))
}

func TestCanViewAuthorSeesEverything(t *testing.T) {
	author := &entity.User{ID: "author"}
	assert.True(t, CanView(author, work("author", entity.VisibilityPrivate)))
	assert.True(t, CanView(author, work("author", entity.VisibilityFriendsOnly)))
	assert.True(t, CanView(author, work("author", entity.VisibilityPublic)))
}

func TestCanViewPrivateHiddenFromOthers(t *testing.T) {
	friend := &entity.User{ID: "friend", Friends: []string{"author"}}
	assert.False(t, CanView(friend, work("author", entity.VisibilityPrivate)))
}

func TestCanViewFriendsOnlyIsDirected(t *testing.T) {
	w := work("b", entity.VisibilityFriendsOnly)

	// a added b, so a sees b's friends-only work
	a := &entity.User{ID: "a", Friends: []string{"b"}}
	assert.True(t, CanView(a, w))

	// c never added b, so c does not, even if b added c
	c := &entity.User{ID: "c"}
	assert.False(t, CanView(c, w))

	// the reverse direction: b did not add a, so b cannot see a's
	// friends-only work
	wa := work("a", entity.VisibilityFriendsOnly)
	b := &entity.User{ID: "b"}
	assert.False(t, CanView(b, wa))
}

func TestCanViewStaleFriendIDHarmless(t *testing.T) {
	viewer := &entity.User{ID: "v", Friends: []string{"deleted-user", "author"}}
	assert.True(t, CanView(viewer, work("author", entity.VisibilityFriendsOnly)))
	assert.False(t, CanView(viewer, work("other", entity.VisibilityFriendsOnly)))
}

func TestFilterPreservesOrder(t *testing.T) {
	viewer := &entity.User{ID: "v", Friends: []string{"f"}}
	in := []*entity.Work{
		work("x", entity.VisibilityPublic),
		work("x", entity.VisibilityPrivate),
		work("f", entity.VisibilityFriendsOnly),
		work("v", entity.VisibilityPrivate),
		work("y", entity.VisibilityFriendsOnly),
	}
	out := Filter(viewer, in)
	assert.Len(t, out, 3)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[2], out[1])
	assert.Equal(t, in[3], out[2])
}
