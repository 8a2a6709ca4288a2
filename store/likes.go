package store

import (
	"context"

	"github.com/goliatone/go-social-feed/model"
	"github.com/uptrace/bun"
)

// InsertLike records a like. It reports false when the pair already existed.
func InsertLike(ctx context.Context, db bun.IDB, postID, userID string) (bool, error) {
	like := &model.Like{PostID: postID, UserID: userID, CreatedAt: model.Now()}

	res, err := db.NewInsert().
		Model(like).
		On("CONFLICT (post_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// DeleteLike removes a like. It reports false when there was nothing to remove.
func DeleteLike(ctx context.Context, db bun.IDB, postID, userID string) (bool, error) {
	res, err := db.NewDelete().
		Model((*model.Like)(nil)).
		Where("post_id = ?", postID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// CountLikes is the authoritative likes count of a post.
func (s *Store) CountLikes(ctx context.Context, postID string) (int64, error) {
	n, err := s.db.NewSelect().
		Model((*model.Like)(nil)).
		Where("l.post_id = ?", postID).
		Count(ctx)
	if err != nil {
		return 0, Translate(err, "count likes")
	}
	return int64(n), nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func affectedOne(res rowsAffected) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
