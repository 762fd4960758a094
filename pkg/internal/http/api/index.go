package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/register", doRegister)
			auth.Post("/login", doLogin)
		}

		api.Post("/assets", authMiddleware, uploadAsset)

		api.Get("/users", authMiddleware, adminMiddleware, listAccount)
		api.Get("/users/me", authMiddleware, getUserinfo)
		api.Put("/users/me", authMiddleware, editUserinfo)
		api.Get("/users/:accountId", getOthersInfo)
		api.Put("/users/:accountId/role", authMiddleware, adminMiddleware, editAccountRole)
		api.Delete("/users/:accountId", authMiddleware, adminMiddleware, deleteAccount)

		flats := api.Group("/flats").Name("Flats API")
		{
			flats.Get("/", listFlat)
			flats.Get("/me", authMiddleware, listOwnedFlat)
			flats.Get("/me/favorites", authMiddleware, listFavoriteFlat)
			flats.Get("/:flatId", getFlat)
			flats.Post("/", authMiddleware, createFlat)
			flats.Put("/:flatId", authMiddleware, editFlat)
			flats.Delete("/:flatId", authMiddleware, deleteFlat)
			flats.Post("/:flatId/favorite", authMiddleware, toggleFlatFavorite)

			flats.Get("/:flatId/messages", optionalAuthMiddleware, getMessageThread)
			flats.Post("/:flatId/messages", authMiddleware, newMessage)
			flats.Get("/:flatId/messages/ws", authMiddleware, websocket.New(messageFeedGateway))
		}
	}
}
