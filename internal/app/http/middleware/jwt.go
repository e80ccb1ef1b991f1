package middleware

import (
	"errors"
	"net/http"
	"strings"

	"subscription-app/internal/domain/users"
	"subscription-app/internal/infra/token"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TokenVerifier is satisfied by *token.Issuer.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

func AuthMiddleware(verifier TokenVerifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))

		claims, err := verifier.Verify(raw)
		if errors.Is(err, token.ErrMissingToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		WithIdentity(c, Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		// not a bearer scheme; verification fails on it
		return header
	}
	return strings.TrimSpace(raw)
}

func RequireRole(role users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			return
		}

		if id.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
