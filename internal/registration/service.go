package registration

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/audit"
	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/membership"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/models"
)

type Auditor interface {
	Log(ctx context.Context, entry audit.LogEntry) error
}

type Request struct {
	TenantID      string `json:"tenantId"`
	Phone         string `json:"phone"`
	Name          string `json:"name,omitempty"`
	IsSystemOwner bool   `json:"isSystemOwner,omitempty"`
}

type Result struct {
	Role        models.Role        `json:"role"`
	Status      models.Status      `json:"status"`
	IsAutoAdmin bool               `json:"isAutoAdmin"`
	Message     string             `json:"message"`
	Member      *models.Membership `json:"member,omitempty"`
}

type Service struct {
	store   membership.Store
	auditor Auditor
	logger  *slog.Logger
}

func NewService(store membership.Store, auditor Auditor) *Service {
	return &Service{
		store:   store,
		auditor: auditor,
		logger:  slog.Default().With("fn", "register-tenant-user"),
	}
}

// Register looks up or creates the caller's membership in the tenant. An
// existing membership is returned unchanged.
func (s *Service) Register(ctx context.Context, caller *auth.Identity, req Request) (*Result, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Invalid authentication")
	}
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, apperr.Validation("Missing tenantId")
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, apperr.Validation("Invalid tenantId")
	}

	s.logger.Info("registering user", "user_id", caller.UserID, "tenant_id", tenantID)

	var (
		result  *Result
		created bool
	)
	err = s.store.WithTenantLock(ctx, tenantID, func(tx membership.Tx) error {
		existing, err := tx.Get(ctx, tenantID, caller.UserID)
		switch {
		case err == nil:
			result = existingResult(existing)
			return nil
		case !errors.Is(err, membership.ErrNotFound):
			return apperr.Internal("Internal server error", err)
		}

		admins, err := tx.CountActiveAdmins(ctx, tenantID)
		if err != nil {
			s.logger.Error("error counting admins", "tenant_id", tenantID, "error", err)
			admins = 0
		}

		decision := Decide(req.IsSystemOwner, admins)
		stored, inserted, err := tx.Insert(ctx, &models.Membership{
			TenantID: tenantID,
			UserID:   caller.UserID,
			Name:     memberName(caller, req),
			Email:    memberEmail(caller, req),
			Phone:    req.Phone,
			Role:     decision.Role,
			Status:   decision.Status,
		})
		if err != nil {
			return apperr.Internal("Failed to register user", err)
		}
		if !inserted {
			result = existingResult(stored)
			return nil
		}

		created = true
		result = &Result{
			Role:        decision.Role,
			Status:      decision.Status,
			IsAutoAdmin: decision.AutoPromote,
			Message:     decision.Message,
			Member:      stored,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !created {
		s.logger.Info("existing member found", "user_id", caller.UserID, "role", result.Role, "status", result.Status)
		return result, nil
	}

	metrics.MembershipDecisions.WithLabelValues(string(result.Role), string(result.Status)).Inc()
	s.logger.Info("new member created", "user_id", caller.UserID, "role", result.Role, "status", result.Status)

	if result.IsAutoAdmin && result.Role.IsAdmin() {
		flag := models.AdminUserFlag{UserID: caller.UserID, Email: result.Member.Email, IsActive: true}
		if err := s.store.UpsertAdminFlag(ctx, flag); err != nil {
			s.logger.Error("error adding to admin_users", "user_id", caller.UserID, "error", err)
		}
	}

	s.audit(ctx, tenantID, caller.UserID, result)
	return result, nil
}

func (s *Service) audit(ctx context.Context, tenantID, userID uuid.UUID, r *Result) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Log(ctx, audit.LogEntry{
		TenantID:     tenantID,
		UserID:       &userID,
		Action:       audit.ActionMemberRegistered,
		ResourceType: "team_directory",
		ResourceID:   &r.Member.ID,
		Details:      map[string]interface{}{"role": r.Role, "status": r.Status, "auto_admin": r.IsAutoAdmin},
	})
	if err != nil {
		s.logger.Warn("audit log failed", "error", err)
	}
}

func existingResult(m *models.Membership) *Result {
	return &Result{
		Role:        m.Role,
		Status:      m.Status,
		IsAutoAdmin: false,
		Message:     welcomeBack(m.Role),
		Member:      m,
	}
}

func memberName(caller *auth.Identity, req Request) string {
	if req.Name != "" {
		return req.Name
	}
	if n := caller.DisplayName(); n != "" {
		return n
	}
	return req.Phone
}

func memberEmail(caller *auth.Identity, req Request) string {
	if caller.Email != "" {
		return caller.Email
	}
	if caller.Phone != "" {
		return caller.Phone
	}
	return req.Phone
}
