package api

import (
	"fmt"
	"path/filepath"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// uploadAsset accepts one multipart file and stores it in the asset bucket.
// The returned reference goes onto account avatars and flat photos; it is
// resolved back to a download URL when the owning record is rendered.
func uploadAsset(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "a file field is required")
	}

	ref := fmt.Sprintf("uploads/%d/%s%s", user.ID, uuid.NewString(), filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer src.Close()

	contentType := file.Header.Get(fiber.HeaderContentType)
	if err := services.Assets.Upload(c.Context(), ref, src, contentType); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"ref": ref,
	})
}
