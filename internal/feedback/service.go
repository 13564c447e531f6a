package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/queue"
)

const maxMessageLen = 5000

type Submission struct {
	Message string  `json:"message"`
	Context Context `json:"context"`
}

// Enqueuer is satisfied by *queue.Client.
type Enqueuer interface {
	EnqueueFeedbackSubmit(ctx context.Context, payload queue.FeedbackSubmitPayload) (string, error)
}

type Service struct {
	queue Enqueuer
}

func NewService(q Enqueuer) *Service {
	return &Service{queue: q}
}

// Submit bounds the reported context and hands the report to the worker.
// It returns the queued task id.
func (s *Service) Submit(ctx context.Context, tenantID, userID *uuid.UUID, sub Submission) (string, error) {
	msg := strings.TrimSpace(sub.Message)
	if msg == "" {
		return "", apperr.Validation("Feedback message is required")
	}
	if len(msg) > maxMessageLen {
		return "", apperr.Validation(fmt.Sprintf("Feedback message must be at most %d characters", maxMessageLen))
	}
	if s.queue == nil {
		return "", apperr.Internal("Feedback queue not configured", nil)
	}

	data, err := json.Marshal(Replay(sub.Context))
	if err != nil {
		return "", apperr.Internal("Failed to submit feedback", fmt.Errorf("marshal context: %w", err))
	}

	payload := queue.FeedbackSubmitPayload{Message: msg, Context: data}
	if tenantID != nil {
		payload.TenantID = tenantID.String()
	}
	if userID != nil {
		payload.UserID = userID.String()
	}

	id, err := s.queue.EnqueueFeedbackSubmit(ctx, payload)
	if err != nil {
		return "", apperr.Internal("Failed to submit feedback", err)
	}
	slog.Info("feedback queued", "task_id", id, "tenant_id", payload.TenantID)
	return id, nil
}
