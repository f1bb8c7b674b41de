package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petmily/vetcare-api/pkg/auth"
)

const contextClaims = "auth_claims"

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		claims, err := m.tokens.Verify(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// Identify resolves a bearer token when present but lets anonymous requests
// through. Used on routes whose behavior varies with the caller.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if claims, err := m.tokens.Verify(header); err == nil {
				c.Set(contextClaims, claims)
			}
		}
		c.Next()
	}
}

// ClaimsFrom returns the verified claims set by Authenticate or Identify, or
// nil for anonymous requests.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	value, ok := c.Get(contextClaims)
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
