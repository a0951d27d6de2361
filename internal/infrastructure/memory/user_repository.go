// Package memory provides mutex-guarded in-process repositories. They
// back the application tests and work as a storage engine for local
// single-node runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-sns/atelier/internal/domain/entity"
	"github.com/atelier-sns/atelier/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*entity.User
	order []string // insertion order for deterministic listings
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if r.byID[id].Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
	cp := cloneUser(u)
	r.byID[cp.ID] = cp
	r.order = append(r.order, cp.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if r.byID[id].Username == username {
			return cloneUser(r.byID[id]), nil
		}
	}
	return nil, nil
}

// AddFriend appends the directed edge under the write lock, so
// concurrent adds for the same user serialize instead of racing a
// read-modify-write cycle. Existing edges are left alone.
func (r *UserRepository) AddFriend(_ context.Context, userID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil
	}
	for _, f := range u.Friends {
		if f == friendID {
			return nil
		}
	}
	u.Friends = append(u.Friends, friendID)
	return nil
}

func (r *UserRepository) SetAvatar(_ context.Context, userID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.AvatarURL = url
	}
	return nil
}

func (r *UserRepository) ListAll(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneUser(r.byID[id]))
	}
	return out, nil
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.Friends = append([]string(nil), u.Friends...)
	return &cp
}

var _ repository.UserRepository = (*UserRepository)(nil)
