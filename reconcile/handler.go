package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Source recomputes counters from the relational store.
type Source interface {
	CountLikes(ctx context.Context, postID string) (int64, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// Handler processes reconcile tasks.
type Handler struct {
	source Source
	cache  cache.Store
	ttls   cache.TTLConfig
	logger zerolog.Logger
}

// NewHandler builds a Handler.
func NewHandler(source Source, c cache.Store, ttls cache.TTLConfig, logger zerolog.Logger) *Handler {
	return &Handler{source: source, cache: c, ttls: ttls, logger: logger}
}

// Register binds the task types to h on mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReconcileLikes, h.HandleReconcileLikes)
	mux.HandleFunc(TypeReconcileFollows, h.HandleReconcileFollows)
}

// HandleReconcileLikes overwrites a likes counter with the stored count.
func (h *Handler) HandleReconcileLikes(ctx context.Context, t *asynq.Task) error {
	var p LikesPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil || p.PostID == "" {
		return fmt.Errorf("invalid likes payload: %w", asynq.SkipRetry)
	}

	n, err := h.source.CountLikes(ctx, p.PostID)
	if err != nil {
		return fmt.Errorf("count likes for %s: %w", p.PostID, err)
	}

	key := cache.PostLikesKey(p.PostID)
	if err := h.cache.SetCount(ctx, key, n, h.ttls.Likes); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	h.logger.Debug().Str("post_id", p.PostID).Int64("likes", n).Msg("likes reconciled")
	return nil
}

// HandleReconcileFollows overwrites a user's follower and following sets with the stored edges.
func (h *Handler) HandleReconcileFollows(ctx context.Context, t *asynq.Task) error {
	var p FollowsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil || p.UserID == "" {
		return fmt.Errorf("invalid follows payload: %w", asynq.SkipRetry)
	}

	followers, err := h.source.FollowerIDs(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("followers of %s: %w", p.UserID, err)
	}
	following, err := h.source.FollowingIDs(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("following of %s: %w", p.UserID, err)
	}

	if err := h.cache.ReplaceMembers(ctx, cache.FollowersKey(p.UserID), followers, h.ttls.Follows); err != nil {
		return fmt.Errorf("replace followers of %s: %w", p.UserID, err)
	}
	if err := h.cache.ReplaceMembers(ctx, cache.FollowingKey(p.UserID), following, h.ttls.Follows); err != nil {
		return fmt.Errorf("replace following of %s: %w", p.UserID, err)
	}

	h.logger.Debug().
		Str("user_id", p.UserID).
		Int("followers", len(followers)).
		Int("following", len(following)).
		Msg("follows reconciled")
	return nil
}
