package postgres

import (
	"context"

	"github.com/geocoder89/heartspace/internal/domain/post"
	"github.com/geocoder89/heartspace/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{pool: pool, prom: prom}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *PostsRepo) Create(ctx context.Context, p post.Post) (post.Post, error) {
	p.ID = uuid.NewString()
	if p.Comments == nil {
		p.Comments = []string{}
	}

	err := r.observe("posts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO posts (id, user_id, name, profile_pic, content, likes, comments, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.UserID, p.Name, p.ProfilePic, p.Content, p.Likes, p.Comments, p.CreatedAt, p.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return post.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) List(ctx context.Context) ([]post.Post, error) {
	return r.query(ctx, "posts.list",
		`SELECT id, user_id, name, profile_pic, content, likes, comments, created_at, updated_at
		FROM posts ORDER BY created_at DESC, id DESC`)
}

func (r *PostsRepo) ListByUser(ctx context.Context, userID string) ([]post.Post, error) {
	return r.query(ctx, "posts.list_by_user",
		`SELECT id, user_id, name, profile_pic, content, likes, comments, created_at, updated_at
		FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *PostsRepo) query(ctx context.Context, op, sql string, args ...any) ([]post.Post, error) {
	var out []post.Post

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (post.Post, error) {
			var p post.Post
			err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.ProfilePic, &p.Content, &p.Likes, &p.Comments, &p.CreatedAt, &p.UpdatedAt)
			if p.Comments == nil {
				p.Comments = []string{}
			}
			return p, err
		})
		return err
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
