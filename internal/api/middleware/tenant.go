package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/tenant"
)

type TenantResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*tenant.Resolved, error)
}

// Tenant attaches the configured tenant to the request context. Resolution
// failures are logged and the request continues without a tenant so that
// static content still renders.
func Tenant(resolver TenantResolver, tenantID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil || tenantID == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}
			res, err := resolver.Resolve(r.Context(), tenantID)
			if err != nil {
				slog.Warn("tenant resolution failed", "tenant_id", tenantID, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(tenant.WithResolved(r.Context(), res)))
		})
	}
}
