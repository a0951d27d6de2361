package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password.
//
// Friends holds directed edges: this user's id appearing in someone
// else's list does not imply the reverse edge exists.
type User struct {
	ID        string
	Username  string
	Password  string
	Email     string
	AvatarURL string
	Friends   []string
	CreatedAt time.Time
}

// HasFriend reports whether id is in this user's friend list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}
