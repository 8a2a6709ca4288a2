package reconcile

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// ParseRedisURL turns a redis:// URL into asynq connection options.
func ParseRedisURL(url string) (asynq.RedisConnOpt, error) {
	opt, err := asynq.ParseRedisURI(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opt, nil
}

// NewServer builds a worker server consuming the counters queue.
func NewServer(opt asynq.RedisConnOpt, concurrency int, logger zerolog.Logger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency:    concurrency,
		Queues:         map[string]int{QueueCounters: 1},
		RetryDelayFunc: asynq.DefaultRetryDelayFunc,
		Logger:         zerologAdapter{logger: logger},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("task", task.Type()).Bytes("payload", task.Payload()).Msg("reconcile failed")
		}),
	})
}

// NewMux returns a ServeMux with h registered.
func NewMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	h.Register(mux)
	return mux
}

// zerologAdapter routes asynq's internal logging to zerolog.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Debug(args ...interface{}) { a.logger.Debug().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Info(args ...interface{})  { a.logger.Info().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Warn(args ...interface{})  { a.logger.Warn().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Error(args ...interface{}) { a.logger.Error().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Fatal(args ...interface{}) { a.logger.Fatal().Msg(fmt.Sprint(args...)) }
