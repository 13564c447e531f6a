package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/feedback"
	"github.com/fastfixai/tenantsite/internal/tenant"
)

type FeedbackSubmitter interface {
	Submit(ctx context.Context, tenantID, userID *uuid.UUID, sub feedback.Submission) (string, error)
}

type FeedbackHandler struct {
	svc FeedbackSubmitter
}

func NewFeedbackHandler(svc FeedbackSubmitter) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit accepts a report from signed-in and anonymous visitors alike.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub feedback.Submission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, err)
		return
	}

	var tenantID, userID *uuid.UUID
	if id := tenant.IDFromContext(r.Context()); id != uuid.Nil {
		tenantID = &id
	}
	if id := auth.IdentityFromContext(r.Context()); id != nil {
		userID = &id.UserID
	}

	taskID, err := h.svc.Submit(r.Context(), tenantID, userID, sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"success": true, "id": taskID})
}
