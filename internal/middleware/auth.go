package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"flock/internal/domain"
)

const principalKey = "principal"

// TokenParser decodes a bearer token into the caller it was issued to.
type TokenParser interface {
	Parse(token string) (domain.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		p, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// OptionalAuth decodes a bearer token when one is present. Missing or
// invalid tokens leave the request anonymous.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if p, err := tokens.Parse(raw); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller stored by the auth middleware.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// OptionalPrincipal returns the caller or nil for anonymous requests.
func OptionalPrincipal(c *gin.Context) *domain.Principal {
	p, ok := PrincipalFrom(c)
	if !ok {
		return nil
	}
	return &p
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
