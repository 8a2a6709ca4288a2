package social

import (
	"context"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/model"
)

// Stats sources.
const (
	StatsSourceDB    = "db"
	StatsSourceMixed = "mixed"
)

// ProfileStats are the counters shown on a profile.
type ProfileStats struct {
	PostCount          int64  `json:"postCount"`
	LikesReceivedCount int64  `json:"likesReceivedCount"`
	FollowersCount     int64  `json:"followersCount"`
	FollowingCount     int64  `json:"followingCount"`
	Source             string `json:"source"`
}

// Profile is a user with their stats.
type Profile struct {
	User  model.PublicUser `json:"user"`
	Stats ProfileStats     `json:"stats"`
}

// Profile loads a user and their counters. Follow counts come from the cached sets when
// those exist, otherwise from the store.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, apperr.Validation("userId is required")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if user == nil {
		return Profile{}, apperr.NotFound("user not found")
	}

	stats, err := s.store.Stats(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	out := ProfileStats{
		PostCount:          stats.PostCount,
		LikesReceivedCount: stats.LikesReceivedCount,
		FollowersCount:     stats.FollowersCount,
		FollowingCount:     stats.FollowingCount,
		Source:             StatsSourceDB,
	}
	s.overlayFollowCounts(ctx, userID, &out)

	return Profile{User: model.NewPublicUser(*user), Stats: out}, nil
}

// overlayFollowCounts replaces follow counts with cached cardinalities. It leaves out
// untouched when any cache call fails.
func (s *Service) overlayFollowCounts(ctx context.Context, userID string, out *ProfileStats) {
	followers, hasFollowers, err := s.cachedCardinality(ctx, cache.FollowersKey(userID))
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile follow sets unavailable")
		return
	}
	following, hasFollowing, err := s.cachedCardinality(ctx, cache.FollowingKey(userID))
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile follow sets unavailable")
		return
	}

	if hasFollowers {
		out.FollowersCount = followers
		out.Source = StatsSourceMixed
	}
	if hasFollowing {
		out.FollowingCount = following
		out.Source = StatsSourceMixed
	}
}

func (s *Service) cachedCardinality(ctx context.Context, key string) (int64, bool, error) {
	exists, err := s.cache.Exists(ctx, key)
	if err != nil || !exists {
		return 0, false, err
	}
	n, err := s.cache.Cardinality(ctx, key)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
