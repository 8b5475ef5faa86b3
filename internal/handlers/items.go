package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/firezonehub/backend/internal/feed"
	"github.com/firezonehub/backend/internal/models"
	"github.com/firezonehub/backend/internal/ranking"
	"github.com/firezonehub/backend/internal/search"
)

type ItemHandler struct {
	DB       *gorm.DB
	Producer *feed.Producer
	Search   *search.Indexer
}

const (
	DirectionUp   = "UP"
	DirectionDown = "DOWN"
)

func (h *ItemHandler) publish(c echo.Context, event feed.Event) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, event); err != nil {
		c.Logger().Errorf("feed publish error: %v", err)
	}
}

func (h *ItemHandler) index(c echo.Context, item models.Item) {
	if !h.Search.Enabled() {
		return
	}
	if err := h.Search.IndexItem(c.Request().Context(), item); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}

// GetItems returns a room's comandas in tab order (created_at ascending).
// Errors degrade to an empty list, matching the read-path convention.
func (h *ItemHandler) GetItems(c echo.Context) error {
	roomID := c.Param("id")

	items := make([]models.Item, 0)
	if err := h.DB.Where("room_id = ?", roomID).Order("created_at ASC").Find(&items).Error; err != nil {
		c.Logger().Errorf("error fetching items: %v", err)
		return c.JSON(http.StatusOK, []models.Item{})
	}

	return c.JSON(http.StatusOK, items)
}

// GetAllItems spans every room; the lobby uses it for per-room statistics.
func (h *ItemHandler) GetAllItems(c echo.Context) error {
	items := make([]models.Item, 0)
	if err := h.DB.Find(&items).Error; err != nil {
		c.Logger().Errorf("error fetching all items: %v", err)
		return c.JSON(http.StatusOK, []models.Item{})
	}

	return c.JSON(http.StatusOK, items)
}

// GetRanking aggregates a room's items into the per-user ranking view.
func (h *ItemHandler) GetRanking(c echo.Context) error {
	roomID := c.Param("id")

	items := make([]models.Item, 0)
	if err := h.DB.Where("room_id = ?", roomID).Order("created_at ASC").Find(&items).Error; err != nil {
		c.Logger().Errorf("error fetching items for ranking: %v", err)
		return c.JSON(http.StatusOK, []ranking.Entry{})
	}

	return c.JSON(http.StatusOK, ranking.Aggregate(items))
}

func (h *ItemHandler) AddItem(c echo.Context) error {
	roomID := c.Param("id")

	var req struct {
		UserID   string  `json:"user_id"`
		UserName string  `json:"user_name"`
		Nome     string  `json:"nome"`
		Preco    float64 `json:"preco"`
		Qtd      int     `json:"qtd"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Nome == "" || req.Preco <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "item name and a positive price are required")
	}
	if req.UserID == "" || req.UserName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and user_name are required")
	}
	if req.Qtd < 1 {
		req.Qtd = 1
	}

	var room models.Room
	if err := h.DB.First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item := models.Item{
		RoomID:   roomID,
		UserID:   req.UserID,
		UserName: req.UserName,
		Nome:     req.Nome,
		Preco:    req.Preco,
		Qtd:      req.Qtd,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, feed.Event{Type: feed.EventItemAdded, RoomID: roomID, ItemID: item.ID, UserID: item.UserID})
	h.index(c, item)

	return c.JSON(http.StatusCreated, item)
}

// PatchItem edits nome/preco/qtd. A quantity of zero or less is never
// persisted: the client confirms and calls DELETE instead, so such a patch
// is answered with 409 and a hint.
func (h *ItemHandler) PatchItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req struct {
		Nome  *string  `json:"nome"`
		Preco *float64 `json:"preco"`
		Qtd   *int     `json:"qtd"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var item models.Item
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Qtd != nil && *req.Qtd <= 0 {
		return echo.NewHTTPError(http.StatusConflict, "quantity must stay positive; delete the item instead")
	}
	if req.Nome != nil {
		if *req.Nome == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "item name cannot be empty")
		}
		item.Nome = *req.Nome
	}
	if req.Preco != nil {
		if *req.Preco <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "price must be positive")
		}
		item.Preco = *req.Preco
	}
	if req.Qtd != nil {
		item.Qtd = *req.Qtd
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, feed.Event{Type: feed.EventItemUpdated, RoomID: item.RoomID, ItemID: item.ID, UserID: item.UserID})
	h.index(c, item)

	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var item models.Item
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, feed.Event{Type: feed.EventItemDeleted, RoomID: item.RoomID, ItemID: item.ID, UserID: item.UserID})
	if h.Search.Enabled() {
		if err := h.Search.DeleteItem(c.Request().Context(), item.ID); err != nil {
			c.Logger().Errorf("search delete error: %v", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteUserItems clears one user's whole comanda in a room (admin action
// from the ranking view).
func (h *ItemHandler) DeleteUserItems(c echo.Context) error {
	roomID := c.Param("id")
	userID := c.Param("userID")

	if err := h.DB.Where("room_id = ? AND user_id = ?", roomID, userID).Delete(&models.Item{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, feed.Event{Type: feed.EventUserItemsPurged, RoomID: roomID, UserID: userID})
	if h.Search.Enabled() {
		if err := h.Search.DeleteByRoom(c.Request().Context(), roomID, userID); err != nil {
			c.Logger().Errorf("search cleanup error: %v", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// ReorderItem moves an item one step up or down inside its owner's list by
// swapping created_at with the adjacent item. Both writes run in one
// transaction; a reorder can therefore never half-apply. At the list
// boundary the call is a no-op and reports swapped=false.
func (h *ItemHandler) ReorderItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Direction != DirectionUp && req.Direction != DirectionDown {
		return echo.NewHTTPError(http.StatusBadRequest, "direction must be UP or DOWN")
	}

	var (
		swapped bool
		roomID  string
		userID  string
	)

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		roomID, userID = item.RoomID, item.UserID

		var myItems []models.Item
		if err := tx.
			Where("room_id = ? AND user_id = ?", item.RoomID, item.UserID).
			Order("created_at ASC").
			Find(&myItems).Error; err != nil {
			return err
		}

		currentIndex := -1
		for i := range myItems {
			if myItems[i].ID == item.ID {
				currentIndex = i
				break
			}
		}
		if currentIndex < 0 {
			return gorm.ErrRecordNotFound
		}

		targetIndex := currentIndex + 1
		if req.Direction == DirectionUp {
			targetIndex = currentIndex - 1
		}
		if targetIndex < 0 || targetIndex >= len(myItems) {
			return nil // boundary, nothing to move
		}

		a, b := myItems[currentIndex], myItems[targetIndex]
		if err := tx.Model(&models.Item{}).Where("id = ?", a.ID).
			Update("created_at", b.CreatedAt).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", b.ID).
			Update("created_at", a.CreatedAt).Error; err != nil {
			return err
		}

		swapped = true
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	if swapped {
		h.publish(c, feed.Event{Type: feed.EventItemsReordered, RoomID: roomID, ItemID: id, UserID: userID})
	}

	return c.JSON(http.StatusOK, map[string]any{"swapped": swapped})
}
