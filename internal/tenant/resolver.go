package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fastfixai/tenantsite/internal/cache"
	"github.com/fastfixai/tenantsite/internal/models"
)

// Resolved is a tenant with its optional profile and branding rows.
type Resolved struct {
	Tenant   *models.Tenant         `json:"tenant"`
	Profile  *models.TenantProfile  `json:"profile,omitempty"`
	Branding *models.TenantBranding `json:"branding,omitempty"`
}

type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Resolver struct {
	store Store
	cache Cacher
	ttl   time.Duration
}

// NewResolver builds a resolver. A nil cache or non-positive ttl disables caching.
func NewResolver(store Store, c Cacher, ttl time.Duration) *Resolver {
	return &Resolver{store: store, cache: c, ttl: ttl}
}

func cacheKey(id uuid.UUID) string { return "tenant:" + id.String() }

func (r *Resolver) caching() bool { return r.cache != nil && r.ttl > 0 }

func (r *Resolver) Resolve(ctx context.Context, id uuid.UUID) (*Resolved, error) {
	if r.caching() {
		var cached Resolved
		err := r.cache.Get(ctx, cacheKey(id), &cached)
		switch {
		case err == nil && cached.Tenant != nil:
			return &cached, nil
		case err != nil && !errors.Is(err, cache.ErrMiss):
			slog.Warn("tenant cache read failed", "tenant_id", id, "error", err)
		}
	}

	t, err := r.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &Resolved{Tenant: t}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := r.store.GetProfile(gctx, id)
		if err != nil {
			return err
		}
		res.Profile = p
		return nil
	})
	g.Go(func() error {
		b, err := r.store.GetBranding(gctx, id)
		if err != nil {
			return err
		}
		res.Branding = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve tenant %s: %w", id, err)
	}

	if r.caching() {
		if err := r.cache.Set(ctx, cacheKey(id), res, r.ttl); err != nil {
			slog.Warn("tenant cache write failed", "tenant_id", id, "error", err)
		}
	}
	return res, nil
}
