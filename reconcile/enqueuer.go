package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

// TaskClient is the part of *asynq.Client the Enqueuer uses.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueConfig controls how reconcile tasks are scheduled.
type EnqueueConfig struct {
	Delay        time.Duration
	UniqueWindow time.Duration
	MaxRetry     int
	Queue        string
}

// DefaultEnqueueConfig returns a 5s delay, a 30s uniqueness window and 3 retries.
func DefaultEnqueueConfig() EnqueueConfig {
	return EnqueueConfig{
		Delay:        5 * time.Second,
		UniqueWindow: 30 * time.Second,
		MaxRetry:     3,
		Queue:        QueueCounters,
	}
}

// Enqueuer schedules reconcile tasks. It satisfies social.Reconciler.
type Enqueuer struct {
	client TaskClient
	cfg    EnqueueConfig
}

// NewEnqueuer builds an Enqueuer on client.
func NewEnqueuer(client TaskClient, cfg EnqueueConfig) *Enqueuer {
	if cfg.Queue == "" {
		cfg.Queue = QueueCounters
	}
	return &Enqueuer{client: client, cfg: cfg}
}

func (e *Enqueuer) options() []asynq.Option {
	opts := []asynq.Option{
		asynq.Queue(e.cfg.Queue),
		asynq.MaxRetry(e.cfg.MaxRetry),
	}
	if e.cfg.Delay > 0 {
		opts = append(opts, asynq.ProcessIn(e.cfg.Delay))
	}
	if e.cfg.UniqueWindow > 0 {
		opts = append(opts, asynq.Unique(e.cfg.UniqueWindow))
	}
	return opts
}

// ReconcileLikes schedules a recompute of a post's likes counter.
func (e *Enqueuer) ReconcileLikes(ctx context.Context, postID string) error {
	task, err := NewReconcileLikesTask(postID, e.options()...)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task)
}

// ReconcileFollows schedules a recompute of a user's follower and following sets.
func (e *Enqueuer) ReconcileFollows(ctx context.Context, userID string) error {
	task, err := NewReconcileFollowsTask(userID, e.options()...)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task)
}

// enqueue treats a task already pending for the same entity as success.
func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task) error {
	_, err := e.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}
