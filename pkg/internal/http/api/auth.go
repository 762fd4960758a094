package api

import (
	"strings"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func readAuthToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Cookies("auth_token")
}

func authMiddleware(c *fiber.Ctx) error {
	tk := readAuthToken(c)
	if len(tk) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	claims, err := services.ParseAuthToken(tk)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	user, err := services.GetAccount(claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "account was not found")
	}

	c.Locals("user", user)

	return c.Next()
}

func adminMiddleware(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.Account)
	if !ok || user.Role != models.AccountRoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "admin role required")
	}

	return c.Next()
}

// optionalAuthMiddleware loads the viewer when a token is present but lets
// anonymous readers through.
func optionalAuthMiddleware(c *fiber.Ctx) error {
	if tk := readAuthToken(c); len(tk) > 0 {
		if claims, err := services.ParseAuthToken(tk); err == nil {
			if user, err := services.GetAccount(claims.UserID); err == nil {
				c.Locals("user", user)
			}
		}
	}

	return c.Next()
}
