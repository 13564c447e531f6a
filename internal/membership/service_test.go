package membership

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/audit"
	"github.com/fastfixai/tenantsite/internal/models"
)

type recordingAuditor struct {
	entries []audit.LogEntry
}

func (r *recordingAuditor) Log(_ context.Context, e audit.LogEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func seed(t *testing.T, store *MemoryStore, tenantID uuid.UUID, role models.Role, status models.Status) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	err := store.WithTenantLock(context.Background(), tenantID, func(tx Tx) error {
		_, _, err := tx.Insert(context.Background(), &models.Membership{
			TenantID: tenantID, UserID: userID, Name: "x", Role: role, Status: status,
		})
		return err
	})
	require.NoError(t, err)
	return userID
}

func TestApprovePending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	auditor := &recordingAuditor{}
	svc := NewService(store, auditor)
	tenantID := uuid.New()
	userID := seed(t, store, tenantID, models.RoleMember, models.StatusPending)

	pending, err := svc.ListPending(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	m, err := svc.Approve(ctx, tenantID, userID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, m.Status)
	assert.Equal(t, models.RoleMember, m.Role)

	pending, err = svc.ListPending(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, audit.ActionMemberApproved, auditor.entries[0].Action)
}

func TestApproveUnknownMember(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)
	_, err := svc.Approve(context.Background(), uuid.New(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPromoteSetsAdminFlag(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()
	userID := seed(t, store, tenantID, models.RoleMember, models.StatusPending)

	m, err := svc.Promote(ctx, tenantID, userID, uuid.New())
	require.NoError(t, err)
	assert.True(t, m.IsActiveAdmin())

	flagged, err := store.AdminFlagActive(ctx, userID)
	require.NoError(t, err)
	assert.True(t, flagged)
}

func TestPromoteLeavesOwnerAlone(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()
	userID := seed(t, store, tenantID, models.RoleOwner, models.StatusActive)

	m, err := svc.Promote(ctx, tenantID, userID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, m.Role)
}

func TestHasAdminAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()

	admin := seed(t, store, tenantID, models.RoleAdmin, models.StatusActive)
	pending := seed(t, store, tenantID, models.RoleAdmin, models.StatusPending)
	legacy := uuid.New()
	require.NoError(t, store.UpsertAdminFlag(ctx, models.AdminUserFlag{UserID: legacy, IsActive: true}))

	for _, tc := range []struct {
		user uuid.UUID
		want bool
	}{
		{admin, true},
		{pending, false},
		{legacy, true},
		{uuid.New(), false},
	} {
		ok, err := svc.HasAdminAccess(ctx, tenantID, tc.user)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok)
	}
}

func TestMemoryStoreInsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tenantID, userID := uuid.New(), uuid.New()

	var first, second *models.Membership
	err := store.WithTenantLock(ctx, tenantID, func(tx Tx) error {
		var created bool
		var err error
		first, created, err = tx.Insert(ctx, &models.Membership{TenantID: tenantID, UserID: userID, Role: models.RoleAdmin, Status: models.StatusActive})
		require.True(t, created)
		if err != nil {
			return err
		}
		second, created, err = tx.Insert(ctx, &models.Membership{TenantID: tenantID, UserID: userID, Role: models.RoleMember, Status: models.StatusPending})
		require.False(t, created)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.RoleAdmin, second.Role)
	assert.Equal(t, 1, store.Count(tenantID))
}
