package api

import (
	"net/http/httptest"
	"testing"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminGuardedApp(viewer *models.Account) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if viewer != nil {
			c.Locals("user", *viewer)
		}
		return c.Next()
	}, adminMiddleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAdminMiddleware(t *testing.T) {
	admin := models.Account{BaseModel: models.BaseModel{ID: 1}, Name: "root", Role: models.AccountRoleAdmin}
	regular := models.Account{BaseModel: models.BaseModel{ID: 2}, Name: "guest", Role: models.AccountRoleUser}

	cases := []struct {
		name   string
		viewer *models.Account
		status int
	}{
		{"admin passes", &admin, fiber.StatusOK},
		{"regular user is rejected", &regular, fiber.StatusForbidden},
		{"anonymous is rejected", nil, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAdminGuardedApp(tc.viewer)
			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
