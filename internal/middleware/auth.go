package middleware

import (
	"homecare-app-server/internal/booking"
	"homecare-app-server/internal/config"
	"homecare-app-server/internal/models"
	"homecare-app-server/internal/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the cookie the access token is also issued in.
const AccessTokenCookie = "access_token"

const (
	callerKey = "caller"
	userIDKey = "userID"
)

// AuthMiddleware creates a middleware for JWT authentication. The token is
// read from the Authorization header, falling back to the access token cookie.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := utils.ValidateAccessToken(tokenString, cfg)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		caller := booking.NewCaller(claims.UserIDs, claims.Name, claims.Roles)
		c.Set(callerKey, caller)
		c.Set(userIDKey, caller.ID)

		c.Next()
	}
}

// bearerToken extracts the token or aborts with 401.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
			return cookie, true
		}
		utils.Unauthorized(c, "Authorization header required")
		c.Abort()
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		utils.Unauthorized(c, "Invalid authorization header format")
		c.Abort()
		return "", false
	}
	return parts[1], true
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			utils.InternalServerError(c, "Internal server error")
			c.Abort()
			return
		}

		if !caller.HasAny(allowedRoles...) {
			utils.Forbidden(c, "You do not have permission to access this resource.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CallerFromContext returns the caller stored by AuthMiddleware.
func CallerFromContext(c *gin.Context) (booking.Caller, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return booking.Caller{}, false
	}
	caller, ok := v.(booking.Caller)
	return caller, ok
}

// GetUserIDFromContext returns the resolved caller id. It is empty when the
// token carried no identifier claim.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok && idStr != ""
}
