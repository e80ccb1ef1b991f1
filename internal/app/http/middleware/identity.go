package middleware

import (
	"context"

	"subscription-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller attached to each request.
type Identity struct {
	UserID string
	Role   users.Role
}

func (i Identity) IsAdmin() bool { return i.Role == users.RoleAdmin }

type ctxKey int

const identityKey ctxKey = iota

const ginIdentityKey = "identity"

// WithIdentity stores id on both the gin context and the request context.
func WithIdentity(c *gin.Context, id Identity) {
	c.Set(ginIdentityKey, id)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityKey, id))
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	if v, ok := c.Get(ginIdentityKey); ok {
		id, ok := v.(Identity)
		return id, ok
	}
	return IdentityFromContext(c.Request.Context())
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
