package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelier-sns/atelier/internal/domain/entity"
	"github.com/atelier-sns/atelier/internal/domain/repository"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Username, u.Password, u.Email, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicateUsername
		}
		return err
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
	return nil
}

const userSelect = `
	SELECT u.id, u.username, u.password_hash, u.email, u.avatar_url, u.created_at,
	       COALESCE(array_agg(f.friend_id::text ORDER BY f.created_at)
	                FILTER (WHERE f.friend_id IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_friends f ON f.user_id = u.id
`

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1 GROUP BY u.id`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.username = $1 GROUP BY u.id`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.AvatarURL,
		&u.CreatedAt, &u.Friends); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// AddFriend records the directed edge. ON CONFLICT DO NOTHING gives
// idempotence and keeps concurrent adds for the same user from losing
// each other; there is no read-modify-write cycle to race on.
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, userID, friendID)
	return err
}

func (r *UserRepository) SetAvatar(ctx context.Context, userID, url string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET avatar_url = $1 WHERE id = $2`, url, userID)
	return err
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` GROUP BY u.id ORDER BY u.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.AvatarURL,
			&u.CreatedAt, &u.Friends); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
