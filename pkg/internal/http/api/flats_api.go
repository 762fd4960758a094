package api

import (
	"time"

	"github.com/flatfinder/flatfinder/pkg/internal/http/exts"
	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func listFlat(c *fiber.Ctx) error {
	filter := services.FlatFilter{
		City:   c.Query("city"),
		Take:   c.QueryInt("take", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if maxPrice := c.QueryFloat("max_price", -1); maxPrice >= 0 {
		filter.MaxPrice = &maxPrice
	}
	if minArea := c.QueryFloat("min_area", -1); minArea >= 0 {
		filter.MinArea = &minArea
	}

	count := services.CountFlat(filter)
	flats, err := services.ListFlat(filter)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  flats,
	})
}

func getFlat(c *fiber.Ctx) error {
	flatId, _ := c.ParamsInt("flatId", 0)

	flat, err := services.GetFlat(uint(flatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(flat)
}

func listOwnedFlat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	flats, err := services.ListOwnedFlat(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(flats)
}

type flatPayload struct {
	Name          string     `json:"name" validate:"required"`
	Description   string     `json:"description"`
	City          string     `json:"city" validate:"required"`
	StreetName    string     `json:"street_name" validate:"required"`
	StreetNumber  string     `json:"street_number" validate:"required"`
	AreaSize      float64    `json:"area_size" validate:"gt=0"`
	HasAC         bool       `json:"has_ac"`
	YearBuilt     int        `json:"year_built"`
	RentPrice     float64    `json:"rent_price" validate:"gt=0"`
	DateAvailable *time.Time `json:"date_available"`
	Photos        []string   `json:"photos"`
}

func createFlat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data flatPayload
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	flat, err := services.NewFlat(models.Flat{
		Name:          data.Name,
		Description:   data.Description,
		City:          data.City,
		StreetName:    data.StreetName,
		StreetNumber:  data.StreetNumber,
		AreaSize:      data.AreaSize,
		HasAC:         data.HasAC,
		YearBuilt:     data.YearBuilt,
		RentPrice:     data.RentPrice,
		DateAvailable: data.DateAvailable,
		Photos:        datatypes.NewJSONSlice(data.Photos),
		OwnerID:       user.ID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(flat)
}

func editFlat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	flatId, _ := c.ParamsInt("flatId", 0)

	var data flatPayload
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	flat, err := services.GetFlat(uint(flatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if flat.OwnerID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the owner can edit a flat")
	}

	flat.Name = data.Name
	flat.Description = data.Description
	flat.City = data.City
	flat.StreetName = data.StreetName
	flat.StreetNumber = data.StreetNumber
	flat.AreaSize = data.AreaSize
	flat.HasAC = data.HasAC
	flat.YearBuilt = data.YearBuilt
	flat.RentPrice = data.RentPrice
	flat.DateAvailable = data.DateAvailable
	flat.Photos = datatypes.NewJSONSlice(data.Photos)

	flat, err = services.EditFlat(flat)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(flat)
}

func deleteFlat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	flatId, _ := c.ParamsInt("flatId", 0)

	flat, err := services.GetFlat(uint(flatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if flat.OwnerID != user.ID && user.Role != models.AccountRoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "only the owner can delete a flat")
	}

	if err := services.DeleteFlat(flat); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func toggleFlatFavorite(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	flatId, _ := c.ParamsInt("flatId", 0)

	flat, err := services.GetFlat(uint(flatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	marked, err := services.ToggleFlatFavorite(flat, user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"is_favorite": marked,
	})
}

func listFavoriteFlat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	flats, err := services.ListFavoriteFlat(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(flats)
}
