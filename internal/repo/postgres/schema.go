package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	gender      TEXT,
	dob         TIMESTAMPTZ,
	phone       TEXT,
	location    TEXT,
	profile_pic TEXT NOT NULL DEFAULT 'default-avatar.png',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS posts (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	profile_pic TEXT NOT NULL DEFAULT 'default-avatar.png',
	content     TEXT NOT NULL,
	likes       INTEGER NOT NULL DEFAULT 0,
	comments    TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC);
CREATE INDEX IF NOT EXISTS posts_user_created_at_idx ON posts (user_id, created_at DESC);
`

// EnsureSchema creates the tables when missing. user_id is not a
// foreign key: posts only snapshot their author.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
