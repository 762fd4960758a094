package api

import (
	"github.com/flatfinder/flatfinder/pkg/internal/http/exts"
	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func doRegister(c *fiber.Ctx) error {
	var data struct {
		Name      string  `json:"name" validate:"required,min=4,max=16"`
		FirstName string  `json:"first_name" validate:"required"`
		LastName  string  `json:"last_name" validate:"required"`
		Password  string  `json:"password" validate:"required,min=8"`
		Avatar    *string `json:"avatar"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.NewAccount(models.Account{
		Name:      data.Name,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Avatar:    data.Avatar,
	}, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(account)
}

func doLogin(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, token, err := services.LoginAccount(data.Name, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"account": account,
		"token":   token,
	})
}

func getUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	data, err := services.GetAccount(user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(data)
}

func editUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		FirstName string  `json:"first_name" validate:"required"`
		LastName  string  `json:"last_name" validate:"required"`
		Avatar    *string `json:"avatar"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user.FirstName = data.FirstName
	user.LastName = data.LastName
	user.Avatar = data.Avatar

	account, err := services.EditAccount(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(account)
}

func listAccount(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	count, err := services.CountAccount()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	accounts, err := services.ListAccount(take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  accounts,
	})
}

func editAccountRole(c *fiber.Ctx) error {
	operator := c.Locals("user").(models.Account)
	accountId, _ := c.ParamsInt("accountId", 0)

	var data struct {
		Role string `json:"role" validate:"required,oneof=user admin"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if operator.ID == uint(accountId) {
		return fiber.NewError(fiber.StatusBadRequest, "unable to change your own role")
	}

	account, err := services.GetAccount(uint(accountId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	account.Role = data.Role

	if account, err = services.EditAccount(account); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(account)
}

func deleteAccount(c *fiber.Ctx) error {
	operator := c.Locals("user").(models.Account)
	accountId, _ := c.ParamsInt("accountId", 0)

	if operator.ID == uint(accountId) {
		return fiber.NewError(fiber.StatusBadRequest, "unable to delete your own account")
	}

	account, err := services.GetAccount(uint(accountId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteAccount(account); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func getOthersInfo(c *fiber.Ctx) error {
	accountId, _ := c.ParamsInt("accountId", 0)

	data, err := services.GetAccount(uint(accountId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(data)
}
