package registration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/auth"
	"github.com/fastfixai/tenantsite/internal/membership"
	"github.com/fastfixai/tenantsite/internal/models"
)

func caller() *auth.Identity {
	return &auth.Identity{UserID: uuid.New(), Phone: "15551234567"}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		owner  bool
		admins int
		role   models.Role
		status models.Status
		auto   bool
	}{
		{"first registrant", false, 0, models.RoleAdmin, models.StatusActive, true},
		{"second registrant", false, 1, models.RoleAdmin, models.StatusActive, true},
		{"third registrant", false, 2, models.RoleMember, models.StatusPending, false},
		{"many admins", false, 7, models.RoleMember, models.StatusPending, false},
		{"owner ignores count", true, 5, models.RoleOwner, models.StatusActive, true},
		{"owner with none", true, 0, models.RoleOwner, models.StatusActive, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.owner, tt.admins)
			assert.Equal(t, tt.role, d.Role)
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, tt.auto, d.AutoPromote)
			assert.NotEmpty(t, d.Message)
		})
	}
}

func TestRegisterFirstTwoBecomeAdmins(t *testing.T) {
	ctx := context.Background()
	store := membership.NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()

	var results []*Result
	for i := 0; i < 3; i++ {
		res, err := svc.Register(ctx, caller(), Request{TenantID: tenantID.String(), Phone: "+15551234567"})
		require.NoError(t, err)
		results = append(results, res)
	}

	assert.Equal(t, models.RoleAdmin, results[0].Role)
	assert.Equal(t, models.StatusActive, results[0].Status)
	assert.True(t, results[0].IsAutoAdmin)
	assert.Equal(t, "Welcome! You have been automatically assigned as an admin.", results[0].Message)

	assert.Equal(t, models.RoleAdmin, results[1].Role)
	assert.True(t, results[1].IsAutoAdmin)

	assert.Equal(t, models.RoleMember, results[2].Role)
	assert.Equal(t, models.StatusPending, results[2].Status)
	assert.False(t, results[2].IsAutoAdmin)
	assert.Equal(t, "Your account has been created and is pending admin approval.", results[2].Message)
}

func TestRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := membership.NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()
	c := caller()

	first, err := svc.Register(ctx, c, Request{TenantID: tenantID.String(), Phone: "+15551234567"})
	require.NoError(t, err)

	second, err := svc.Register(ctx, c, Request{TenantID: tenantID.String(), Phone: "+15551234567", IsSystemOwner: true})
	require.NoError(t, err)

	assert.Equal(t, first.Role, second.Role)
	assert.Equal(t, first.Status, second.Status)
	assert.False(t, second.IsAutoAdmin)
	assert.Equal(t, "Welcome back! You are logged in as admin.", second.Message)
	assert.Equal(t, 1, store.Count(tenantID))
}

func TestRegisterSystemOwnerBypassesCap(t *testing.T) {
	ctx := context.Background()
	store := membership.NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, caller(), Request{TenantID: tenantID.String()})
		require.NoError(t, err)
	}

	owner := caller()
	res, err := svc.Register(ctx, owner, Request{TenantID: tenantID.String(), Name: "System Owner", IsSystemOwner: true})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, res.Role)
	assert.Equal(t, models.StatusActive, res.Status)
	assert.True(t, res.IsAutoAdmin)
	assert.Equal(t, "System Owner", res.Member.Name)

	flagged, err := store.AdminFlagActive(ctx, owner.UserID)
	require.NoError(t, err)
	assert.True(t, flagged)
}

func TestRegisterPendingMemberGetsNoAdminFlag(t *testing.T) {
	ctx := context.Background()
	store := membership.NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, caller(), Request{TenantID: tenantID.String()})
		require.NoError(t, err)
	}
	c := caller()
	_, err := svc.Register(ctx, c, Request{TenantID: tenantID.String()})
	require.NoError(t, err)

	flagged, err := store.AdminFlagActive(ctx, c.UserID)
	require.NoError(t, err)
	assert.False(t, flagged)
}

func TestRegisterCountFailureTreatedAsZero(t *testing.T) {
	ctx := context.Background()
	store := membership.NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, caller(), Request{TenantID: tenantID.String()})
		require.NoError(t, err)
	}

	store.CountErr = errors.New("count unavailable")
	res, err := svc.Register(ctx, caller(), Request{TenantID: tenantID.String()})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
}

func TestRegisterFieldDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewService(membership.NewMemoryStore(), nil)
	tenantID := uuid.New()

	c := &auth.Identity{UserID: uuid.New(), FullName: "Full Name"}
	res, err := svc.Register(ctx, c, Request{TenantID: tenantID.String(), Phone: "+15550001111"})
	require.NoError(t, err)
	assert.Equal(t, "Full Name", res.Member.Name)
	assert.Equal(t, "+15550001111", res.Member.Email)

	c = &auth.Identity{UserID: uuid.New(), Email: "a@b.co", Phone: "15550002222"}
	res, err = svc.Register(ctx, c, Request{TenantID: tenantID.String(), Phone: "+15550002222"})
	require.NoError(t, err)
	assert.Equal(t, "+15550002222", res.Member.Name)
	assert.Equal(t, "a@b.co", res.Member.Email)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(membership.NewMemoryStore(), nil)

	_, err := svc.Register(ctx, nil, Request{TenantID: uuid.NewString()})
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Register(ctx, caller(), Request{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Missing tenantId", apperr.Message(err))

	_, err = svc.Register(ctx, caller(), Request{TenantID: "not-a-uuid"})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterConcurrentFirstLogins(t *testing.T) {
	ctx := context.Background()
	store := membership.NewMemoryStore()
	svc := NewService(store, nil)
	tenantID := uuid.New()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		admins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Register(ctx, caller(), Request{TenantID: tenantID.String()})
			assert.NoError(t, err)
			if err == nil && res.Role == models.RoleAdmin {
				mu.Lock()
				admins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, MaxAutoAdmins, admins)
	assert.Equal(t, 10, store.Count(tenantID))
}
