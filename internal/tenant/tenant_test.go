package tenant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfixai/tenantsite/internal/cache"
	"github.com/fastfixai/tenantsite/internal/content"
	"github.com/fastfixai/tenantsite/internal/models"
)

type fakeStore struct {
	mu       sync.Mutex
	tenant   *models.Tenant
	profile  *models.TenantProfile
	branding *models.TenantBranding
	err      error
	calls    int
}

func (f *fakeStore) GetTenant(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.tenant == nil || f.tenant.ID != id {
		return nil, ErrNotFound
	}
	return f.tenant, nil
}

func (f *fakeStore) GetProfile(context.Context, uuid.UUID) (*models.TenantProfile, error) {
	return f.profile, f.err
}

func (f *fakeStore) GetBranding(context.Context, uuid.UUID) (*models.TenantBranding, error) {
	return f.branding, nil
}

// mapCache stands in for Redis.
type mapCache struct {
	mu     sync.Mutex
	values map[string]*Resolved
	getErr error
}

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return cache.ErrMiss
	}
	*dest.(*Resolved) = *v
	return nil
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(*Resolved)
	return nil
}

func newFixture() (*fakeStore, uuid.UUID) {
	id := uuid.New()
	return &fakeStore{
		tenant:   &models.Tenant{ID: id, Name: "Acme Roofing", Slug: "acme"},
		profile:  &models.TenantProfile{TenantID: id, BusinessName: "Acme Roofing Co", Phone: "(510) 555-0199", City: "Oakland", State: "CA"},
		branding: &models.TenantBranding{TenantID: id, PrimaryColor: "#1e40af", FaviconURL: "/fav.ico"},
	}, id
}

func TestResolveLoadsProfileAndBranding(t *testing.T) {
	store, id := newFixture()
	r := NewResolver(store, nil, 0)

	res, err := r.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Roofing", res.Tenant.Name)
	require.NotNil(t, res.Profile)
	require.NotNil(t, res.Branding)
}

func TestResolveUnknownTenant(t *testing.T) {
	store, _ := newFixture()
	r := NewResolver(store, nil, 0)

	_, err := r.Resolve(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveProfileError(t *testing.T) {
	store, id := newFixture()
	store.err = errors.New("connection reset")
	r := NewResolver(store, nil, 0)

	_, err := r.Resolve(context.Background(), id)
	require.Error(t, err)
}

func TestResolveUsesCache(t *testing.T) {
	store, id := newFixture()
	c := &mapCache{values: map[string]*Resolved{}}
	r := NewResolver(store, c, time.Minute)

	_, err := r.Resolve(context.Background(), id)
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestResolveBypassesBrokenCache(t *testing.T) {
	store, id := newFixture()
	c := &mapCache{values: map[string]*Resolved{}, getErr: errors.New("redis down")}
	r := NewResolver(store, c, time.Minute)

	res, err := r.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, res.Tenant.ID)
}

func staticBusiness() content.Business {
	return content.Business{
		Name:     "Roofing Friend",
		Tagline:  "Roofs done right",
		Phone:    "(510) 555-0100",
		PhoneRaw: "5105550100",
		Email:    "hello@roofingfriend.test",
		Logo:     "/logo.png",
		Address:  content.Address{Street: "1 Main St", City: "Berkeley", State: "CA", Zip: "94701", Full: "1 Main St, Berkeley, CA 94701"},
	}
}

func TestCompanyFallsBackToStatic(t *testing.T) {
	cfg := Company(staticBusiness(), nil)
	assert.False(t, cfg.IsResolved)
	assert.Equal(t, "Roofing Friend", cfg.Name)
	assert.Equal(t, "5105550100", cfg.PhoneRaw)

	store, _ := newFixture()
	cfg = Company(staticBusiness(), &Resolved{Tenant: store.tenant})
	assert.False(t, cfg.IsResolved, "tenant without profile is not resolved")
}

func TestCompanyOverridesFromProfile(t *testing.T) {
	store, id := newFixture()
	res := &Resolved{Tenant: store.tenant, Profile: store.profile, Branding: store.branding}

	cfg := Company(staticBusiness(), res)
	assert.True(t, cfg.IsResolved)
	assert.Equal(t, id.String(), cfg.TenantID)
	assert.Equal(t, "Acme Roofing Co", cfg.Name)
	assert.Equal(t, "Roofs done right", cfg.Tagline)
	assert.Equal(t, "5105550199", cfg.PhoneRaw)
	assert.Equal(t, "hello@roofingfriend.test", cfg.Email)
	assert.Equal(t, "1 Main St", cfg.Address.Street)
	assert.Equal(t, "Oakland", cfg.Address.City)
	assert.Equal(t, "Oakland, CA", cfg.Address.Full)
	assert.Equal(t, "/logo.png", cfg.Logo)
	assert.Equal(t, "#1e40af", cfg.PrimaryColor)
}

func TestBrandingVars(t *testing.T) {
	store, _ := newFixture()
	b := BrandingVars(&Resolved{Tenant: store.tenant, Branding: store.branding})

	assert.Equal(t, "226 71% 40%", b.Vars["--primary"])
	assert.Equal(t, "226 71% 40%", b.Vars["--primary-hover"])
	assert.NotContains(t, b.Vars, "--secondary")
	assert.Equal(t, "Acme Roofing - CRM", b.Title)
	assert.Equal(t, "/fav.ico", b.Favicon)

	assert.Empty(t, BrandingVars(nil).Vars)
}

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#1e40af", "226 71% 40%", true},
		{"f59e0b", "38 92% 50%", true},
		{"#10b981", "160 84% 39%", true},
		{"#ffffff", "0 0% 100%", true},
		{"#000000", "0 0% 0%", true},
		{"#ff0000", "0 100% 50%", true},
		{"#fff", "", false},
		{"#zzzzzz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := HexToHSL(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
