package social

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/internal/apperr"
)

// Like statuses.
const (
	StatusLiked        = "liked"
	StatusAlreadyLiked = "already_liked"
	StatusUnliked      = "unliked"
	StatusNotLiked     = "not_liked"
)

// LikeRequest identifies the (post, user) pair.
type LikeRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

func (r LikeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required),
		validation.Field(&r.UserID, validation.Required),
	)
}

// LikeResult reports what the call did and the cached likes counter after it.
type LikeResult struct {
	Status     string      `json:"status"`
	LikesCount cache.Count `json:"likesCount"`
}

// Like records a like. Repeating it is harmless and leaves the counter alone.
func (s *Service) Like(ctx context.Context, req LikeRequest) (LikeResult, error) {
	if err := req.Validate(); err != nil {
		return LikeResult{}, apperr.FromValidation(err)
	}

	isNewWrite, err := s.store.AddLike(ctx, req.PostID, req.UserID)
	if err != nil {
		return LikeResult{}, err
	}

	key := cache.PostLikesKey(req.PostID)
	if !isNewWrite {
		return LikeResult{Status: StatusAlreadyLiked, LikesCount: s.peek(ctx, key)}, nil
	}

	value, err := s.cache.Incr(ctx, key, s.ttls.Likes)
	s.scheduleLikes(ctx, req.PostID)
	return LikeResult{Status: StatusLiked, LikesCount: s.counted("incr", key, value, err)}, nil
}

// Unlike removes a like. The cached counter never goes below zero.
func (s *Service) Unlike(ctx context.Context, req LikeRequest) (LikeResult, error) {
	if err := req.Validate(); err != nil {
		return LikeResult{}, apperr.FromValidation(err)
	}

	removed, err := s.store.RemoveLike(ctx, req.PostID, req.UserID)
	if err != nil {
		return LikeResult{}, err
	}

	key := cache.PostLikesKey(req.PostID)
	if !removed {
		return LikeResult{Status: StatusNotLiked, LikesCount: s.peek(ctx, key)}, nil
	}

	value, err := s.cache.DecrFloor(ctx, key, s.ttls.Likes)
	s.scheduleLikes(ctx, req.PostID)
	return LikeResult{Status: StatusUnliked, LikesCount: s.counted("decr", key, value, err)}, nil
}

func (s *Service) scheduleLikes(ctx context.Context, postID string) {
	if err := s.reconciler.ReconcileLikes(ctx, postID); err != nil {
		s.logger.Warn().Err(err).Str("post_id", postID).Msg("likes reconcile not scheduled")
	}
}
