package delivery

import (
	"net/http"
	"strings"

	"pickleclub-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// Context keys the middleware populates for downstream handlers.
const (
	UserKey   = "user"
	UserIDKey = "userID"
)

const bearerPrefix = "Bearer "

// AuthMiddleware validates the bearer token and stores the authenticated
// user under UserKey/UserIDKey.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "a bearer token is required"})
			c.Abort()
			return
		}

		user, err := authUsecase.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}
