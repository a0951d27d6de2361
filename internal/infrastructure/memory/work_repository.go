package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-sns/atelier/internal/domain/entity"
	"github.com/atelier-sns/atelier/internal/domain/repository"
)

type WorkRepository struct {
	mu    sync.RWMutex
	byID  map[string]*entity.Work
	order []string
}

func NewWorkRepository() *WorkRepository {
	return &WorkRepository{byID: make(map[string]*entity.Work)}
}

func (r *WorkRepository) Create(_ context.Context, w *entity.Work) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	cp := *w
	r.byID[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return nil
}

func (r *WorkRepository) GetByID(_ context.Context, id string) (*entity.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *WorkRepository) ListByAuthor(_ context.Context, authorID string) ([]*entity.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Work
	for _, id := range r.order {
		if r.byID[id].AuthorID == authorID {
			cp := *r.byID[id]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *WorkRepository) ListAll(_ context.Context) ([]*entity.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Work, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

var _ repository.WorkRepository = (*WorkRepository)(nil)
