package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Processor handles the payload of one task type.
type Processor interface {
	ProcessTask(ctx context.Context, t *asynq.Task) error
}

// NewServeMux routes feedback report tasks to the given processor. Tasks of
// any other type are rejected by asynq as unhandled.
func NewServeMux(feedbackReports Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(logTask)
	mux.Handle(TypeFeedbackSubmit, feedbackReports)
	return mux
}

func logTask(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		logger := slog.Default().With("fn", "worker", "task_type", t.Type())
		start := time.Now()
		if err := next.ProcessTask(ctx, t); err != nil {
			logger.Error("task failed", "error", err, "duration", time.Since(start))
			return err
		}
		logger.Info("task processed", "duration", time.Since(start))
		return nil
	})
}
