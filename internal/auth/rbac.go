package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/models"
)

// MembershipLookup returns the caller's membership or nil when none exists.
type MembershipLookup interface {
	Lookup(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error)
}

type RBAC struct {
	members  MembershipLookup
	tenantID uuid.UUID
}

func NewRBAC(members MembershipLookup, tenantID uuid.UUID) *RBAC {
	return &RBAC{members: members, tenantID: tenantID}
}

// RequireRole admits callers whose active membership holds one of roles.
// Must run after Authenticate.
func (r *RBAC) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := IdentityFromContext(req.Context())
			if id == nil {
				writeError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			m, err := r.members.Lookup(req.Context(), r.tenantID, id.UserID)
			if err != nil {
				slog.Error("membership lookup failed", "user_id", id.UserID, "error", err)
				writeError(w, http.StatusInternalServerError, "permission check failed")
				return
			}
			if m == nil || m.Status != models.StatusActive || !allowed[m.Role] {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
