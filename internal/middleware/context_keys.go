package middleware

import (
	"context"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey   = contextKey("logger")
	identityCtxKey = contextKey("identity")
)

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromCtx retrieves the caller identity stored by AuthMiddleware.
func IdentityFromCtx(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(domain.Identity)
	return identity, ok && identity.UserID != ""
}

// GetIdentityFromContext retrieves the authenticated identity from the Gin context.
// It returns the identity and a boolean indicating if it was found.
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	if val, exists := c.Get(string(identityCtxKey)); exists {
		identity, ok := val.(domain.Identity)
		return identity, ok && identity.UserID != ""
	}
	// check in the request context as well
	return IdentityFromCtx(c.Request.Context())
}
