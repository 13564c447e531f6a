package tenant

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const resolvedKey contextKey = "tenant"

func WithResolved(ctx context.Context, r *Resolved) context.Context {
	return context.WithValue(ctx, resolvedKey, r)
}

func FromContext(ctx context.Context) *Resolved {
	r, _ := ctx.Value(resolvedKey).(*Resolved)
	return r
}

func IDFromContext(ctx context.Context) uuid.UUID {
	if r := FromContext(ctx); r != nil && r.Tenant != nil {
		return r.Tenant.ID
	}
	return uuid.Nil
}
