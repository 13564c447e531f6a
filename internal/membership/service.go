package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/audit"
	"github.com/fastfixai/tenantsite/internal/models"
)

// Auditor records membership changes. *audit.Service satisfies it.
type Auditor interface {
	Log(ctx context.Context, entry audit.LogEntry) error
}

// Service implements the admin approval actions and the access checks used by
// the login fallback and role middleware.
type Service struct {
	store   Store
	auditor Auditor
}

func NewService(store Store, auditor Auditor) *Service {
	return &Service{store: store, auditor: auditor}
}

// HasAdminAccess reports whether the user holds an active legacy admin flag
// or an active owner/admin membership in the tenant.
func (s *Service) HasAdminAccess(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	flagged, err := s.store.AdminFlagActive(ctx, userID)
	if err != nil {
		slog.Warn("admin flag lookup failed", "user_id", userID, "error", err)
	} else if flagged {
		return true, nil
	}

	m, err := s.store.Get(ctx, tenantID, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return m.IsActiveAdmin(), nil
}

// Lookup returns the caller's membership, or nil when none exists.
func (s *Service) Lookup(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	m, err := s.store.Get(ctx, tenantID, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return m, err
}

func (s *Service) ListPending(ctx context.Context, tenantID uuid.UUID) ([]models.Membership, error) {
	return s.store.ListByStatus(ctx, tenantID, models.StatusPending)
}

// Approve moves a pending membership to active, keeping its role.
func (s *Service) Approve(ctx context.Context, tenantID, userID, actorID uuid.UUID) (*models.Membership, error) {
	m, err := s.get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if m.Status == models.StatusActive {
		return m, nil
	}

	updated, err := s.store.Update(ctx, tenantID, userID, m.Role, models.StatusActive)
	if err != nil {
		return nil, apperr.Internal("Failed to approve member", err)
	}
	s.audit(ctx, tenantID, actorID, audit.ActionMemberApproved, updated)
	return updated, nil
}

// Promote grants the admin role and activates the membership. Owners are left
// untouched.
func (s *Service) Promote(ctx context.Context, tenantID, userID, actorID uuid.UUID) (*models.Membership, error) {
	m, err := s.get(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role == models.RoleOwner || m.IsActiveAdmin() {
		return m, nil
	}

	updated, err := s.store.Update(ctx, tenantID, userID, models.RoleAdmin, models.StatusActive)
	if err != nil {
		return nil, apperr.Internal("Failed to promote member", err)
	}

	if err := s.store.UpsertAdminFlag(ctx, models.AdminUserFlag{UserID: userID, Email: updated.Email, IsActive: true}); err != nil {
		slog.Error("admin flag upsert failed", "user_id", userID, "error", err)
	}
	s.audit(ctx, tenantID, actorID, audit.ActionMemberPromoted, updated)
	return updated, nil
}

// EnsureOwner makes the user an active owner of the tenant, creating the
// membership when it does not exist. Used by the local development login.
func (s *Service) EnsureOwner(ctx context.Context, tenantID, userID uuid.UUID, name, email string) (*models.Membership, error) {
	var stored *models.Membership
	err := s.store.WithTenantLock(ctx, tenantID, func(tx Tx) error {
		m, _, err := tx.Insert(ctx, &models.Membership{
			TenantID: tenantID,
			UserID:   userID,
			Name:     name,
			Email:    email,
			Role:     models.RoleOwner,
			Status:   models.StatusActive,
		})
		stored = m
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ensure owner: %w", err)
	}
	if stored.Role == models.RoleOwner && stored.Status == models.StatusActive {
		return stored, nil
	}
	return s.store.Update(ctx, tenantID, userID, models.RoleOwner, models.StatusActive)
}

// GrantAdminFlag sets the cross-tenant admin_users flag.
func (s *Service) GrantAdminFlag(ctx context.Context, userID uuid.UUID, email string) error {
	return s.store.UpsertAdminFlag(ctx, models.AdminUserFlag{UserID: userID, Email: email, IsActive: true})
}

func (s *Service) get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	m, err := s.store.Get(ctx, tenantID, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Member not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load member", err)
	}
	return m, nil
}

func (s *Service) audit(ctx context.Context, tenantID, actorID uuid.UUID, action string, m *models.Membership) {
	if s.auditor == nil {
		return
	}
	actor := actorID
	err := s.auditor.Log(ctx, audit.LogEntry{
		TenantID:     tenantID,
		UserID:       &actor,
		Action:       action,
		ResourceType: "team_directory",
		ResourceID:   &m.ID,
		Details:      map[string]interface{}{"member_user_id": m.UserID, "role": m.Role, "status": m.Status},
	})
	if err != nil {
		slog.Warn("audit log failed", "action", action, "error", err)
	}
}
