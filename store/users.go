package store

import (
	"context"

	"github.com/goliatone/go-social-feed/model"
)

// CreateUser inserts a user. A taken username or email is a conflict.
func (s *Store) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = model.Now()
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, Translate(err, "create user")
	}
	return created, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	user := new(model.User)
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, Translate(err, "user")
	}
	return user, nil
}

// UserStats are the authoritative profile counters.
type UserStats struct {
	PostCount          int64
	LikesReceivedCount int64
	FollowersCount     int64
	FollowingCount     int64
}

// Stats computes a user's counters in one round trip.
func (s *Store) Stats(ctx context.Context, userID string) (UserStats, error) {
	var stats UserStats
	err := s.db.NewSelect().
		ColumnExpr("(SELECT COUNT(*) FROM posts AS p WHERE p.user_id = ?)", userID).
		ColumnExpr("(SELECT COUNT(*) FROM posts AS p JOIN likes AS l ON l.post_id = p.id WHERE p.user_id = ?)", userID).
		ColumnExpr("(SELECT COUNT(*) FROM follows AS f WHERE f.following_id = ?)", userID).
		ColumnExpr("(SELECT COUNT(*) FROM follows AS f WHERE f.follower_id = ?)", userID).
		Scan(ctx, &stats.PostCount, &stats.LikesReceivedCount, &stats.FollowersCount, &stats.FollowingCount)
	if err != nil {
		return UserStats{}, Translate(err, "user stats")
	}
	return stats, nil
}

// Suggestions lists up to limit users other than the viewer, flagging the ones the
// viewer already follows.
func (s *Store) Suggestions(ctx context.Context, viewerID string, limit int) ([]model.UserSuggestion, error) {
	suggestions := make([]model.UserSuggestion, 0, limit)
	err := s.db.NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.id, u.username, u.profile_picture_url").
		ColumnExpr("EXISTS (SELECT 1 FROM follows AS f WHERE f.follower_id = ? AND f.following_id = u.id) AS is_following", viewerID).
		Where("u.id <> ?", viewerID).
		OrderExpr("u.created_at DESC, u.id DESC").
		Limit(limit).
		Scan(ctx, &suggestions)
	if err != nil {
		return nil, Translate(err, "list users")
	}
	return suggestions, nil
}
