package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/fastfixai/tenantsite/internal/feedback"
	"github.com/fastfixai/tenantsite/internal/models"
	"github.com/fastfixai/tenantsite/internal/queue"
	"github.com/fastfixai/tenantsite/internal/storage"
)

type FeedbackWorker struct {
	store   feedback.Store
	storage storage.Storage
	bucket  string
}

// NewFeedbackWorker builds the worker. A nil storage skips snapshot archiving.
func NewFeedbackWorker(store feedback.Store, st storage.Storage, bucket string) *FeedbackWorker {
	return &FeedbackWorker{store: store, storage: st, bucket: bucket}
}

func (w *FeedbackWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.FeedbackSubmitPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	report := &models.FeedbackReport{
		Message:  payload.Message,
		Context:  payload.Context,
		TenantID: optionalID(payload.TenantID),
		UserID:   optionalID(payload.UserID),
	}
	if len(report.Context) == 0 {
		report.Context = json.RawMessage(`{}`)
	}

	if err := w.store.Insert(ctx, report); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}
	slog.Info("feedback stored", "report_id", report.ID, "tenant_id", payload.TenantID)

	if w.storage == nil {
		return nil
	}

	scope := "unscoped"
	if report.TenantID != nil {
		scope = report.TenantID.String()
	}
	path := fmt.Sprintf("%s/%s.json", scope, report.ID)

	// The report row already exists; archive problems must not cause a retry
	// that would insert it again.
	if err := w.storage.Upload(ctx, w.bucket, path, report.Context, "application/json"); err != nil {
		slog.Error("feedback snapshot upload failed", "report_id", report.ID, "error", err)
		return nil
	}
	report.SnapshotURL = w.storage.PublicURL(w.bucket, path)
	if err := w.store.SetSnapshotURL(ctx, report); err != nil {
		slog.Error("feedback snapshot url update failed", "report_id", report.ID, "error", err)
	}
	return nil
}

func optionalID(s string) *uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
