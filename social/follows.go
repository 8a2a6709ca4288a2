package social

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/internal/apperr"
)

// Follow statuses.
const (
	StatusFollowed         = "followed"
	StatusAlreadyFollowing = "already_following"
	StatusUnfollowed       = "unfollowed"
	StatusNotFollowing     = "not_following"
)

// FollowRequest is the ordered pair (follower, followee).
type FollowRequest struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

func (r FollowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FollowerID, validation.Required),
		validation.Field(&r.FollowingID,
			validation.Required,
			validation.NotIn(r.FollowerID).Error("cannot follow yourself"),
		),
	)
}

// FollowResult reports what the call did and both cached set sizes after it.
type FollowResult struct {
	Status         string      `json:"status"`
	FollowerID     string      `json:"followerId"`
	FollowingID    string      `json:"followingId"`
	FollowersCount cache.Count `json:"followersCount"`
	FollowingCount cache.Count `json:"followingCount"`
}

// Follow adds the edge follower -> following. Self-follow is rejected before any write.
func (s *Service) Follow(ctx context.Context, req FollowRequest) (FollowResult, error) {
	if err := req.Validate(); err != nil {
		return FollowResult{}, apperr.FromValidation(err)
	}

	isNewWrite, err := s.store.AddFollow(ctx, req.FollowerID, req.FollowingID)
	if err != nil {
		return FollowResult{}, err
	}

	status := StatusAlreadyFollowing
	if isNewWrite {
		status = StatusFollowed
	}
	return s.followResult(ctx, req, status, isNewWrite, s.cache.AddMember), nil
}

// Unfollow removes the edge follower -> following.
func (s *Service) Unfollow(ctx context.Context, req FollowRequest) (FollowResult, error) {
	if err := req.Validate(); err != nil {
		return FollowResult{}, apperr.FromValidation(err)
	}

	removed, err := s.store.RemoveFollow(ctx, req.FollowerID, req.FollowingID)
	if err != nil {
		return FollowResult{}, err
	}

	status := StatusNotFollowing
	if removed {
		status = StatusUnfollowed
	}
	return s.followResult(ctx, req, status, removed, s.cache.RemoveMember), nil
}

type memberOp func(ctx context.Context, key, member string) error

// followResult adjusts both membership sets when the edge changed, refreshes their TTL
// and reads their sizes. Any cache failure makes both counts unknown.
func (s *Service) followResult(ctx context.Context, req FollowRequest, status string, changed bool, op memberOp) FollowResult {
	result := FollowResult{
		Status:         status,
		FollowerID:     req.FollowerID,
		FollowingID:    req.FollowingID,
		FollowersCount: cache.UnknownCount(),
		FollowingCount: cache.UnknownCount(),
	}

	if changed {
		s.scheduleFollows(ctx, req.FollowerID, req.FollowingID)
	}

	followingKey := cache.FollowingKey(req.FollowerID)
	followersKey := cache.FollowersKey(req.FollowingID)

	following, followers, err := s.adjustSets(ctx, changed, op, followingKey, req.FollowingID, followersKey, req.FollowerID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("following_key", followingKey).
			Str("followers_key", followersKey).
			Msg("follow sets unavailable")
		return result
	}

	result.FollowingCount = cache.KnownCount(following)
	result.FollowersCount = cache.KnownCount(followers)
	return result
}

func (s *Service) adjustSets(ctx context.Context, changed bool, op memberOp, followingKey, followingMember, followersKey, followersMember string) (int64, int64, error) {
	if changed {
		if err := op(ctx, followingKey, followingMember); err != nil {
			return 0, 0, err
		}
		if err := op(ctx, followersKey, followersMember); err != nil {
			return 0, 0, err
		}
	}

	for _, key := range []string{followingKey, followersKey} {
		if err := s.cache.Expire(ctx, key, s.ttls.Follows); err != nil {
			return 0, 0, err
		}
	}

	following, err := s.cache.Cardinality(ctx, followingKey)
	if err != nil {
		return 0, 0, err
	}
	followers, err := s.cache.Cardinality(ctx, followersKey)
	if err != nil {
		return 0, 0, err
	}
	return following, followers, nil
}

func (s *Service) scheduleFollows(ctx context.Context, userIDs ...string) {
	for _, id := range userIDs {
		if err := s.reconciler.ReconcileFollows(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("follows reconcile not scheduled")
		}
	}
}
