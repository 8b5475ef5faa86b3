package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/firezonehub/backend/internal/feed"
	"github.com/firezonehub/backend/internal/models"
	"github.com/firezonehub/backend/internal/search"
)

type RoomHandler struct {
	DB       *gorm.DB
	Producer *feed.Producer
	Search   *search.Indexer
}

func (h *RoomHandler) publish(c echo.Context, event feed.Event) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, event); err != nil {
		c.Logger().Errorf("feed publish error: %v", err)
	}
}

// GetRooms lists every room, newest first. A read failure degrades to an
// empty lobby rather than an error page.
func (h *RoomHandler) GetRooms(c echo.Context) error {
	rooms := make([]models.Room, 0)
	if err := h.DB.Order("created_at DESC").Find(&rooms).Error; err != nil {
		c.Logger().Errorf("error fetching rooms: %v", err)
		return c.JSON(http.StatusOK, []models.Room{})
	}

	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "room name is required")
	}

	room := models.Room{
		ID:   uuid.NewString(),
		Name: req.Name,
	}
	if err := h.DB.Create(&room).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, room)
}

// DeleteRoom removes the room and every comanda in it. Both deletes run in
// one transaction so a half-deleted room can never be observed.
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	roomID := c.Param("id")

	var room models.Room
	if err := h.DB.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&room).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, feed.Event{Type: feed.EventRoomDeleted, RoomID: roomID})

	if h.Search.Enabled() {
		if err := h.Search.DeleteByRoom(c.Request().Context(), roomID, ""); err != nil {
			c.Logger().Errorf("search cleanup error: %v", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}
