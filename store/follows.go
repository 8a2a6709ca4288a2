package store

import (
	"context"

	"github.com/goliatone/go-social-feed/model"
	"github.com/uptrace/bun"
)

// InsertFollow records that followerID follows followingID. It reports false when the
// edge already existed.
func InsertFollow(ctx context.Context, db bun.IDB, followerID, followingID string) (bool, error) {
	follow := &model.Follow{FollowerID: followerID, FollowingID: followingID, CreatedAt: model.Now()}

	res, err := db.NewInsert().
		Model(follow).
		On("CONFLICT (follower_id, following_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// DeleteFollow removes the edge. It reports false when there was nothing to remove.
func DeleteFollow(ctx context.Context, db bun.IDB, followerID, followingID string) (bool, error) {
	res, err := db.NewDelete().
		Model((*model.Follow)(nil)).
		Where("follower_id = ?", followerID).
		Where("following_id = ?", followingID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}

// FollowerIDs lists the users following userID.
func (s *Store) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().
		Model((*model.Follow)(nil)).
		Column("follower_id").
		Where("f.following_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, Translate(err, "list followers")
	}
	return ids, nil
}

// FollowingIDs lists the users userID follows.
func (s *Store) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().
		Model((*model.Follow)(nil)).
		Column("following_id").
		Where("f.follower_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, Translate(err, "list following")
	}
	return ids, nil
}
