package store

import (
	"context"

	"github.com/uptrace/bun"
)

// AddLike inserts the like in its own transaction and reports whether a row was written.
func (s *Store) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	return s.toggle(ctx, "like post", func(ctx context.Context, tx bun.Tx) (bool, error) {
		return InsertLike(ctx, tx, postID, userID)
	})
}

// RemoveLike deletes the like in its own transaction and reports whether a row was removed.
func (s *Store) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	return s.toggle(ctx, "unlike post", func(ctx context.Context, tx bun.Tx) (bool, error) {
		return DeleteLike(ctx, tx, postID, userID)
	})
}

// AddFollow inserts the follow edge in its own transaction.
func (s *Store) AddFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.toggle(ctx, "follow user", func(ctx context.Context, tx bun.Tx) (bool, error) {
		return InsertFollow(ctx, tx, followerID, followingID)
	})
}

// RemoveFollow deletes the follow edge in its own transaction.
func (s *Store) RemoveFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.toggle(ctx, "unfollow user", func(ctx context.Context, tx bun.Tx) (bool, error) {
		return DeleteFollow(ctx, tx, followerID, followingID)
	})
}

func (s *Store) toggle(ctx context.Context, op string, fn func(ctx context.Context, tx bun.Tx) (bool, error)) (bool, error) {
	var changed bool
	err := s.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		changed, err = fn(ctx, tx)
		return err
	})
	if err != nil {
		return false, Translate(err, op)
	}
	return changed, nil
}
