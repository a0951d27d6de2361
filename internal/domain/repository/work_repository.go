package repository

import (
	"context"

	"github.com/atelier-sns/atelier/internal/domain/entity"
)

// WorkRepository defines persistence for works. Works are write-once;
// there are no update or delete operations. Listings are in creation
// order so feed output stays deterministic.
type WorkRepository interface {
	Create(ctx context.Context, w *entity.Work) error
	GetByID(ctx context.Context, id string) (*entity.Work, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Work, error)
	ListAll(ctx context.Context) ([]*entity.Work, error)
}
