package middleware

import (
	"context"

	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserUID contextKey = "user_uid"
	ctxEmail   contextKey = "email"
	ctxRole    contextKey = "actor_role"
)

// IdentityFromContext resolves the authenticated caller seeded by Auth. The
// zero Identity means the request carried no valid credential.
func IdentityFromContext(ctx context.Context) auth.Identity {
	if ctx == nil {
		return auth.Identity{}
	}
	identity := auth.Identity{}
	if v, ok := ctx.Value(ctxUserUID).(string); ok {
		identity.UID = v
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		identity.Email = v
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		identity.Role = enums.ActorRole(v)
	}
	return identity
}

// WithIdentity injects a resolved identity, used by Auth and by handler tests.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserUID, identity.UID)
	ctx = context.WithValue(ctx, ctxEmail, identity.Email)
	return context.WithValue(ctx, ctxRole, string(identity.Role))
}
