package membership

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/models"
)

var ErrNotFound = errors.New("membership not found")

// Store persists team_directory rows and the legacy admin_users flags.
type Store interface {
	// WithTenantLock runs fn while holding an exclusive per-tenant lock, so
	// that lookup, admin count and insert observe a consistent view.
	WithTenantLock(ctx context.Context, tenantID uuid.UUID, fn func(Tx) error) error

	Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status models.Status) ([]models.Membership, error)
	Update(ctx context.Context, tenantID, userID uuid.UUID, role models.Role, status models.Status) (*models.Membership, error)

	UpsertAdminFlag(ctx context.Context, flag models.AdminUserFlag) error
	AdminFlagActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Tx is the view of the store available inside WithTenantLock.
type Tx interface {
	Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error)
	CountActiveAdmins(ctx context.Context, tenantID uuid.UUID) (int, error)
	// Insert creates m unless a row for the same (tenant, user) exists. The
	// stored row is returned either way; created reports which happened.
	Insert(ctx context.Context, m *models.Membership) (stored *models.Membership, created bool, err error)
}
