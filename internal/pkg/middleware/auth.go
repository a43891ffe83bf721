package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/env"
	"github.com/monowartv/iptv-backend/internal/pkg/security"
	"github.com/monowartv/iptv-backend/internal/pkg/usercontext"
)

func jwtSecret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", ""))
}

// RequireAuth validates the bearer token, loads the user and puts the user
// context into Locals. Suspended and deleted accounts are rejected even with
// a valid token.
func RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication token required",
		})
	}
	claims, err := security.ParseAuthToken(jwtSecret(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or expired token",
		})
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or expired token",
		})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Account is not active",
		})
	}

	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:     user.ID,
		SID:        user.SID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		IsLoggedIn: true,
		IsAdmin:    user.Role == models.ROLE_ADMIN,
	})
	return c.Next()
}

// RequireAdmin ensures the authenticated user is an admin. Must run after
// RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Admin access required",
		})
	}
	return c.Next()
}
