package store

import (
	"context"
	"database/sql"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-social-feed/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store groups the relational queries. Users and posts go through generic repositories;
// relation rows (likes, follows) and keyset listings are written directly with bun.
type Store struct {
	db    *bun.DB
	users repository.Repository[*model.User]
	posts repository.Repository[*model.Post]
}

// New builds a Store on an open database.
func New(db *bun.DB) *Store {
	return &Store{
		db:    db,
		users: repository.NewRepository[*model.User](db, userHandlers()),
		posts: repository.NewRepository[*model.Post](db, postHandlers()),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return Ping(ctx, s.db)
}

// RunInTx runs fn in a transaction. It commits when fn returns nil and rolls back on an
// error or panic; the connection is released on every path.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, fn)
}

func userHandlers() repository.ModelHandlers[*model.User] {
	return repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User {
			return &model.User{}
		},
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return parseID(u.ID)
		},
		SetID: func(u *model.User, id uuid.UUID) {
			u.ID = id.String()
		},
		GetIdentifier: func() string {
			return "username"
		},
	}
}

func postHandlers() repository.ModelHandlers[*model.Post] {
	return repository.ModelHandlers[*model.Post]{
		NewRecord: func() *model.Post {
			return &model.Post{}
		},
		GetID: func(p *model.Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return parseID(p.ID)
		},
		SetID: func(p *model.Post, id uuid.UUID) {
			p.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
	}
}

// parseID maps opaque identifiers that are not UUIDs to uuid.Nil.
func parseID(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

// NewID returns a fresh identifier for an application-created row.
func NewID() string {
	return uuid.NewString()
}
