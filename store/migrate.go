package store

import (
	"context"
	"fmt"

	"github.com/goliatone/go-social-feed/model"
	"github.com/uptrace/bun"
)

type tableSpec struct {
	model       any
	foreignKeys []string
	checks      []string
}

type indexSpec struct {
	model   any
	name    string
	columns []string
}

var tables = []tableSpec{
	{model: (*model.User)(nil)},
	{
		model:       (*model.Post)(nil),
		foreignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
	},
	{
		model: (*model.Like)(nil),
		foreignKeys: []string{
			`("post_id") REFERENCES "posts" ("id") ON DELETE CASCADE`,
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*model.Follow)(nil),
		foreignKeys: []string{
			`("follower_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("following_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
		checks: []string{`"follower_id" <> "following_id"`},
	},
	{
		model: (*model.Comment)(nil),
		foreignKeys: []string{
			`("post_id") REFERENCES "posts" ("id") ON DELETE CASCADE`,
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
}

var indexes = []indexSpec{
	{model: (*model.Post)(nil), name: "posts_user_created_idx", columns: []string{"user_id", "created_at"}},
	{model: (*model.Follow)(nil), name: "follows_following_idx", columns: []string{"following_id"}},
	{model: (*model.Like)(nil), name: "likes_user_idx", columns: []string{"user_id"}},
	{model: (*model.Comment)(nil), name: "comments_post_created_idx", columns: []string{"post_id", "created_at", "id"}},
}

// Migrate creates the schema. It is idempotent.
func Migrate(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, t := range tables {
			q := tx.NewCreateTable().Model(t.model).IfNotExists()
			for _, fk := range t.foreignKeys {
				q = q.ForeignKey(fk)
			}
			for _, check := range t.checks {
				q = q.ColumnExpr("CHECK (" + check + ")")
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("create table %T: %w", t.model, err)
			}
		}

		for _, idx := range indexes {
			_, err := tx.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
		}
		return nil
	})
}
