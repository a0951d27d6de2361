package application

import "errors"

// Data-level conditions are ordinary return values, never panics. Only
// infrastructure failures (storage down, broker down) flow through as
// plain wrapped errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWorkNotFound       = errors.New("work not found")
	// ErrForbidden means the work exists but the viewer may not read
	// it. Callers must be able to tell this apart from ErrWorkNotFound.
	ErrForbidden = errors.New("forbidden")
	// ErrUnknownUser and ErrSelfFriend are only returned when strict
	// friend validation is enabled.
	ErrUnknownUser = errors.New("unknown target user")
	ErrSelfFriend  = errors.New("cannot add yourself as a friend")
)
