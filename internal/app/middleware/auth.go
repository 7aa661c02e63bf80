package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/domain/services"
)

// IdentityContextKey is where the resolved identity lives on the gin context.
const IdentityContextKey = "identity"

// AuthMiddleware resolves the session token from the Authorization header
// into an identity and attaches it to the request.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_authorization",
				"message": "Authorization header is required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_authorization_format",
				"message": "Authorization header must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		identity, err := authService.Resolve(c.Request.Context(), tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Session token is expired or unknown",
			})
			c.Abort()
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// SetIdentity attaches the identity to the gin context.
func SetIdentity(c *gin.Context, identity services.Identity) {
	c.Set(IdentityContextKey, identity)
}

// GetIdentity retrieves the identity set by AuthMiddleware.
func GetIdentity(c *gin.Context) (services.Identity, bool) {
	value, exists := c.Get(IdentityContextKey)
	if !exists {
		return services.Identity{}, false
	}
	identity, ok := value.(services.Identity)
	return identity, ok
}
