// Package access holds the read-access predicate for works.
//
// Friendship edges are directed: the friends-only clause checks the
// viewer's own friend list for the author, so "friends-only" behaves as
// a subscription from the viewer's side rather than a mutual gate. A
// viewer who added the author sees the work even if the author never
// added the viewer back.
package access

import (
	"github.com/atelier-sns/atelier/internal/domain/entity"
)

// CanView reports whether viewer may read work. It never errors:
//   - public works are visible to everyone
//   - authors always see their own works, whatever the visibility
//   - friends-only works are visible when the author is in the
//     viewer's friend list
//
// Stale ids in the friend list are harmless; they simply never match an
// author id.
func CanView(viewer *entity.User, work *entity.Work) bool {
	if work.Visibility == entity.VisibilityPublic {
		return true
	}
	if work.AuthorID == viewer.ID {
		return true
	}
	return work.Visibility == entity.VisibilityFriendsOnly && viewer.HasFriend(work.AuthorID)
}

// Filter returns the works from in that viewer may read, preserving
// order. Own works pass through the author clause like any other.
func Filter(viewer *entity.User, in []*entity.Work) []*entity.Work {
	out := make([]*entity.Work, 0, len(in))
	for _, w := range in {
		if CanView(viewer, w) {
			out = append(out, w)
		}
	}
	return out
}
