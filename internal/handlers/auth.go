package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/firezonehub/backend/internal/service"
)

type AuthHandler struct {
	Admin *service.AdminTokens
}

// Verify checks the shared admin password. The check itself happens only
// server-side; on success a signed admin token is returned and required by
// every admin route.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !h.Admin.VerifyPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "wrong admin password")
	}

	token, expiresAt, err := h.Admin.Issue(time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"admin_token": token,
		"expires_at":  expiresAt,
	})
}
