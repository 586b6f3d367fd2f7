package middleware

import (
	"net/http"
	"strings"

	"github.com/gefest173/meteora/internal/token"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// Auth validates a Bearer token and sets "email" (the token subject) in
// the gin context. Expired, malformed and badly signed tokens all map to
// the same 401.
func Auth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		subject, err := issuer.Validate(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("email", subject)
		c.Next()
	}
}
