package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelier-sns/atelier/internal/domain/entity"
	"github.com/atelier-sns/atelier/internal/domain/repository"
)

type WorkRepository struct {
	pool *pgxpool.Pool
}

func NewWorkRepository(pool *pgxpool.Pool) *WorkRepository {
	return &WorkRepository{pool: pool}
}

func (r *WorkRepository) Create(ctx context.Context, w *entity.Work) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO works (title, content, author_id, author_name, visibility)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, w.Title, w.Content, w.AuthorID, w.AuthorName, string(w.Visibility))
	return row.Scan(&w.ID, &w.CreatedAt)
}

const workSelect = `
	SELECT id, title, content, author_id, author_name, visibility, created_at
	FROM works
`

func (r *WorkRepository) GetByID(ctx context.Context, id string) (*entity.Work, error) {
	w := &entity.Work{}
	row := r.pool.QueryRow(ctx, workSelect+` WHERE id = $1`, id)
	if err := scanWork(row, w); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

func (r *WorkRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Work, error) {
	rows, err := r.pool.Query(ctx, workSelect+` WHERE author_id = $1 ORDER BY created_at`, authorID)
	if err != nil {
		return nil, err
	}
	return collectWorks(rows)
}

func (r *WorkRepository) ListAll(ctx context.Context) ([]*entity.Work, error) {
	rows, err := r.pool.Query(ctx, workSelect+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return collectWorks(rows)
}

func scanWork(row pgx.Row, w *entity.Work) error {
	var vis string
	if err := row.Scan(&w.ID, &w.Title, &w.Content, &w.AuthorID, &w.AuthorName,
		&vis, &w.CreatedAt); err != nil {
		return err
	}
	w.Visibility = entity.Visibility(vis)
	return nil
}

func collectWorks(rows pgx.Rows) ([]*entity.Work, error) {
	defer rows.Close()
	var works []*entity.Work
	for rows.Next() {
		w := &entity.Work{}
		if err := scanWork(rows, w); err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	return works, rows.Err()
}

var _ repository.WorkRepository = (*WorkRepository)(nil)
