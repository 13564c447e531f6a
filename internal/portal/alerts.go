package portal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/models"
)

type AcknowledgeRequest struct {
	ItemType  string `json:"itemType"`
	ItemID    string `json:"itemId"`
	ProjectID string `json:"projectId"`
}

type AcknowledgeResult struct {
	Success      bool  `json:"success"`
	Acknowledged int64 `json:"acknowledged"`
}

// Acknowledge marks every open alert for the item as seen. Alerts that were
// already acknowledged are left untouched and not counted.
func (s *Service) Acknowledge(ctx context.Context, req AcknowledgeRequest) (*AcknowledgeResult, error) {
	logger := slog.Default().With("fn", "client-portal-acknowledge-alert")

	if req.ItemType == "" || req.ItemID == "" || req.ProjectID == "" {
		return nil, apperr.Validation("Missing required parameters")
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, apperr.Validation("Invalid projectId")
	}

	key := models.AlertKey{ProjectID: projectID, ItemType: req.ItemType, ItemID: req.ItemID}
	logger.Info("acknowledging alert", "project_id", projectID, "item_type", key.ItemType, "item_id", key.ItemID)

	n, err := s.store.AcknowledgeAlerts(ctx, key, s.now().UTC())
	if err != nil {
		logger.Error("acknowledge failed", "error", err)
		return nil, &apperr.Error{Kind: apperr.ErrInternal, Message: "Failed to acknowledge alert", Err: err}
	}
	logger.Info("acknowledged alerts", "count", n)
	return &AcknowledgeResult{Success: true, Acknowledged: n}, nil
}
