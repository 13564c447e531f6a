// Package portal serves the client portal: catch-up SMS to the client and
// alert acknowledgement.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/notify"
)

type CatchupRequest struct {
	ProjectID      string `json:"projectId"`
	ProjectName    string `json:"projectName"`
	UpdatesSummary string `json:"updatesSummary"`
}

type CatchupResult struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	PortalURL  string    `json:"portalUrl"`
	SMSSent    bool      `json:"smsSent"`
	NotifiedAt time.Time `json:"notifiedAt"`
}

// DeliveryError is returned when the SMS could not go out. The portal URL is
// still reported so the caller can share it another way.
type DeliveryError struct {
	PortalURL string
	Err       error
}

func (e *DeliveryError) Error() string { return e.Err.Error() }
func (e *DeliveryError) Unwrap() error { return e.Err }

type Service struct {
	store        Store
	sender       notify.Sender
	siteURL      string
	businessName string
	now          func() time.Time
}

// NewService builds the portal service. A nil sender means SMS is not
// configured. businessName signs the catch-up messages.
func NewService(store Store, sender notify.Sender, siteURL, businessName string) *Service {
	return &Service{
		store:        store,
		sender:       sender,
		siteURL:      strings.TrimRight(siteURL, "/"),
		businessName: businessName,
		now:          time.Now,
	}
}

func (s *Service) SendCatchup(ctx context.Context, req CatchupRequest) (*CatchupResult, error) {
	logger := slog.Default().With("fn", "send-client-portal-catchup")

	if req.ProjectID == "" || req.ProjectName == "" {
		return nil, apperr.Validation("Missing required fields: projectId and projectName")
	}
	logger.Info("catch-up request", "project_id", req.ProjectID, "project_name", req.ProjectName)

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, apperr.NotFound("Project not found")
	}
	project, err := s.store.Project(ctx, projectID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}

	if !notify.IsValidPhone(project.ClientPhone) {
		return nil, apperr.Validation("No valid client phone number on project")
	}

	portalURL := s.siteURL
	slug, err := s.store.AccessSlug(ctx, projectID)
	if err != nil {
		logger.Error("portal access lookup failed", "error", err)
	}
	if slug != "" {
		portalURL = fmt.Sprintf("%s/client-portal/%s", s.siteURL, slug)
	}

	if s.sender == nil {
		logger.Error("twilio credentials not configured")
		metrics.SMSSent.WithLabelValues("catchup", "unconfigured").Inc()
		return nil, &DeliveryError{PortalURL: portalURL, Err: apperr.Internal("SMS service not configured", nil)}
	}

	body := fmt.Sprintf("🔔 Project Update: %s\n\n%s\n\nView all updates: %s\n\n- The %s Team",
		req.ProjectName, req.UpdatesSummary, portalURL, s.businessName)

	sid, err := s.sender.Send(ctx, notify.FormatPhoneToE164(project.ClientPhone), body)
	if err != nil {
		logger.Error("twilio sms failed", "error", err)
		metrics.SMSSent.WithLabelValues("catchup", "failed").Inc()
		return nil, &DeliveryError{PortalURL: portalURL, Err: apperr.Internal("Failed to send SMS", err)}
	}
	metrics.SMSSent.WithLabelValues("catchup", "sent").Inc()
	logger.Info("sms sent", "sid", sid)

	now := s.now().UTC()
	if err := s.store.MarkNotified(ctx, projectID, now); err != nil {
		logger.Error("failed to update client_last_notified_at", "error", err)
	}

	return &CatchupResult{
		Success:    true,
		Message:    "Catch-up notification sent to client",
		PortalURL:  portalURL,
		SMSSent:    true,
		NotifiedAt: now,
	}, nil
}
