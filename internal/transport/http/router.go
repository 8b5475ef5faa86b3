package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/firezonehub/backend/internal/handlers"
	"github.com/firezonehub/backend/internal/service"
)

type Deps struct {
	DB            *gorm.DB
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	RoomHandler   *handlers.RoomHandler
	ItemHandler   *handlers.ItemHandler
	StreamHandler *handlers.StreamHandler
	SearchHandler *handlers.SearchHandler
	Admin         *service.AdminTokens
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/users", d.UserHandler.CreateUser)
	v1.GET("/users/:id", d.UserHandler.GetUser)
	v1.PUT("/users/:id/room", d.UserHandler.SetCurrentRoom)
	v1.DELETE("/users/:id/room", d.UserHandler.ClearCurrentRoom)
	v1.PUT("/users/:id/theme", d.UserHandler.SetTheme)
	v1.POST("/users/:id/admin", d.UserHandler.ToggleAdmin)

	v1.POST("/admin/verify", d.AuthHandler.Verify)

	rooms := v1.Group("/rooms")

	rooms.GET("", d.RoomHandler.GetRooms)
	rooms.GET("/:id/items", d.ItemHandler.GetItems)
	rooms.GET("/:id/ranking", d.ItemHandler.GetRanking)
	rooms.GET("/:id/events", d.StreamHandler.Events)
	rooms.GET("/:id/search", d.SearchHandler.Search)
	rooms.POST("/:id/items", d.ItemHandler.AddItem)

	v1.GET("/items", d.ItemHandler.GetAllItems)
	v1.PATCH("/items/:id", d.ItemHandler.PatchItem)
	v1.POST("/items/:id/reorder", d.ItemHandler.ReorderItem)
	v1.DELETE("/items/:id", d.ItemHandler.DeleteItem)

	admin := v1.Group("/admin", d.Admin.Middleware)

	admin.POST("/rooms", d.RoomHandler.CreateRoom)
	admin.DELETE("/rooms/:id", d.RoomHandler.DeleteRoom)
	admin.DELETE("/rooms/:id/users/:userID/items", d.ItemHandler.DeleteUserItems)
}
