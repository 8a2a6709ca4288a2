// Package reconcile recomputes cached counters from the relational store out of band.
//
// Mutators enqueue a task per touched entity after a state change. Tasks are unique per
// entity within a window and delayed, so a burst of toggles collapses into one recompute
// that overwrites whatever drift the best-effort increments left behind.
package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeReconcileLikes   = "counters:reconcile_likes"
	TypeReconcileFollows = "counters:reconcile_follows"
)

// QueueCounters is the queue reconcile tasks run on.
const QueueCounters = "counters"

// LikesPayload names the post whose likes counter is recomputed.
type LikesPayload struct {
	PostID string `json:"postId"`
}

// FollowsPayload names the user whose follow sets are recomputed.
type FollowsPayload struct {
	UserID string `json:"userId"`
}

// NewReconcileLikesTask builds a likes reconcile task.
func NewReconcileLikesTask(postID string, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(LikesPayload{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal likes payload: %w", err)
	}
	return asynq.NewTask(TypeReconcileLikes, payload, opts...), nil
}

// NewReconcileFollowsTask builds a follows reconcile task.
func NewReconcileFollowsTask(userID string, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(FollowsPayload{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal follows payload: %w", err)
	}
	return asynq.NewTask(TypeReconcileFollows, payload, opts...), nil
}
