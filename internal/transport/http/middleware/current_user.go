package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/gefest173/meteora/internal/repository"
	"github.com/gin-gonic/gin"
)

// CurrentUser runs after Auth. It resolves the token subject (email) to
// the user row and sets "userID" so history rows always reference a real
// user. A token for a deleted user gets a 401, not a 500.
func CurrentUser(repo repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("email")
		user, err := repo.FindByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "resolve current user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}
		c.Set("userID", user.ID)
		c.Next()
	}
}
