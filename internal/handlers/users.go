package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/firezonehub/backend/internal/identity"
	"github.com/firezonehub/backend/internal/models"
	"github.com/firezonehub/backend/internal/service"
)

// UserHandler owns the session surface: the identity record, the
// current-room pointer and the theme preference the web client used to keep
// in local storage.
type UserHandler struct {
	DB    *gorm.DB
	Store identity.Store
	Admin *service.AdminTokens
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	user := identity.NewUser(req.Name)
	if err := h.Store.SaveUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.Store.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, user)
}

// SetCurrentRoom stores the room pointer for a user. The room must exist;
// a stale pointer to a deleted room is the client's signal to return to the
// lobby.
func (h *UserHandler) SetCurrentRoom(c echo.Context) error {
	userID := c.Param("id")

	var req struct {
		RoomID   string `json:"room_id"`
		RoomName string `json:"room_name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RoomID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "room_id is required")
	}

	var room models.Room
	if err := h.DB.First(&room, "id = ?", req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "room not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	name := req.RoomName
	if name == "" {
		name = room.Name
	}
	current := identity.CurrentRoom{ID: room.ID, Name: name}
	if err := h.Store.SetCurrentRoom(c.Request().Context(), userID, current); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, current)
}

func (h *UserHandler) ClearCurrentRoom(c echo.Context) error {
	if err := h.Store.ClearCurrentRoom(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) SetTheme(c echo.Context) error {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Theme != "light" && req.Theme != "dark" {
		return echo.NewHTTPError(http.StatusBadRequest, "theme must be light or dark")
	}

	if err := h.Store.SetTheme(c.Request().Context(), c.Param("id"), req.Theme); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleAdmin flips the stored isAdmin hint. Enabling requires the shared
// admin password and also returns an admin token, which is what actually
// opens the admin routes; disabling needs nothing.
func (h *UserHandler) ToggleAdmin(c echo.Context) error {
	userID := c.Param("id")

	var req struct {
		Enabled  bool   `json:"enabled"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Store.GetUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	if !req.Enabled {
		user.IsAdmin = false
		if err := h.Store.SaveUser(c.Request().Context(), *user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]any{"user": user})
	}

	if !h.Admin.VerifyPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "wrong admin password")
	}

	token, expiresAt, err := h.Admin.Issue(time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.IsAdmin = true
	if err := h.Store.SaveUser(c.Request().Context(), *user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":        user,
		"admin_token": token,
		"expires_at":  expiresAt,
	})
}
