// Package middleware provides HTTP middleware for the fiber app:
// JWT authentication, role guards, and request tagging.
package middleware

import (
	"strings"

	"digiwallet/internal/models"
	"digiwallet/internal/utils"
	"digiwallet/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Authenticate.
const (
	LocalsClaims = "claims"
	LocalsUserID = "userID"
)

// Authenticate validates the Bearer token and stores the claims in the
// request context.
func Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return response.Unauthorized(c, "invalid or expired token")
	}

	c.Locals(LocalsClaims, claims)
	c.Locals(LocalsUserID, claims.UserID)
	return c.Next()
}

// RequireRoles allows the request through only when the authenticated
// user holds one of the given roles. SUPER_ADMIN passes every guard.
func RequireRoles(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(LocalsClaims).(*models.UserClaims)
		if !ok || claims == nil {
			return response.Unauthorized(c, "unauthorized")
		}
		if claims.Role == models.RoleSuperAdmin {
			return c.Next()
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return response.Error(c, fiber.StatusForbidden, "insufficient permissions")
	}
}

// Claims returns the authenticated claims, or nil when the route is not
// behind Authenticate.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals(LocalsClaims).(*models.UserClaims)
	return claims
}

// UserID returns the authenticated user's ID, 0 when unauthenticated.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalsUserID).(uint)
	return id
}
