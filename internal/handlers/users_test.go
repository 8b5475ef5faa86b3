package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firezonehub/backend/internal/identity"
	"github.com/firezonehub/backend/internal/service"
)

func newUserHandler(t *testing.T) (*UserHandler, identity.Store) {
	t.Helper()
	store := identity.NewMemoryStore()
	return &UserHandler{
		DB:    InitTestDB(t),
		Store: store,
		Admin: &service.AdminTokens{Secret: []byte("test-secret"), Password: "segredo"},
	}, store
}

func TestCreateUser(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	c, rec := newJSONContext(e, http.MethodPost, "/", map[string]any{"name": "  Ana  "})

	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user identity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.True(t, strings.HasPrefix(user.ID, "u_"))
	assert.Len(t, user.ID, 11)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, user.IsAdmin)

	saved, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, user.ID, saved.ID)
}

func TestCreateUser_RequiresName(t *testing.T) {
	e := echo.New()
	h, _ := newUserHandler(t)

	c, _ := newJSONContext(e, http.MethodPost, "/", map[string]any{"name": "   "})

	err := h.CreateUser(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestGetUser_NotFound(t *testing.T) {
	e := echo.New()
	h, _ := newUserHandler(t)

	c, _ := newJSONContext(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("u_missing")

	err := h.GetUser(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestSetCurrentRoom(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	user := identity.NewUser("Ana")
	require.NoError(t, store.SaveUser(context.Background(), user))
	room := createTestRoom(t, h.DB, "Sexta")

	c, rec := newJSONContext(e, http.MethodPut, "/", map[string]any{"room_id": room.ID})
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	require.NoError(t, h.SetCurrentRoom(c))
	require.Equal(t, http.StatusOK, rec.Code)

	current, err := store.GetCurrentRoom(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, room.ID, current.ID)
	assert.Equal(t, "Sexta", current.Name)
}

func TestSetCurrentRoom_UnknownRoom(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	user := identity.NewUser("Ana")
	require.NoError(t, store.SaveUser(context.Background(), user))

	c, _ := newJSONContext(e, http.MethodPut, "/", map[string]any{"room_id": "missing"})
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	err := h.SetCurrentRoom(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestClearCurrentRoom(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	user := identity.NewUser("Ana")
	require.NoError(t, store.SaveUser(context.Background(), user))
	require.NoError(t, store.SetCurrentRoom(context.Background(), user.ID, identity.CurrentRoom{ID: "r1", Name: "Sexta"}))

	c, rec := newJSONContext(e, http.MethodDelete, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	require.NoError(t, h.ClearCurrentRoom(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	current, err := store.GetCurrentRoom(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSetTheme(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	c, rec := newJSONContext(e, http.MethodPut, "/", map[string]any{"theme": "dark"})
	c.SetParamNames("id")
	c.SetParamValues("u_ana")

	require.NoError(t, h.SetTheme(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	theme, err := store.GetTheme(context.Background(), "u_ana")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestSetTheme_Invalid(t *testing.T) {
	e := echo.New()
	h, _ := newUserHandler(t)

	c, _ := newJSONContext(e, http.MethodPut, "/", map[string]any{"theme": "sepia"})
	c.SetParamNames("id")
	c.SetParamValues("u_ana")

	err := h.SetTheme(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestToggleAdmin_WrongPassword(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	user := identity.NewUser("Ana")
	require.NoError(t, store.SaveUser(context.Background(), user))

	c, _ := newJSONContext(e, http.MethodPost, "/", map[string]any{"enabled": true, "password": "errada"})
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	err := h.ToggleAdmin(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))

	saved, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, saved.IsAdmin)
}

func TestToggleAdmin_EnableAndDisable(t *testing.T) {
	e := echo.New()
	h, store := newUserHandler(t)

	user := identity.NewUser("Ana")
	require.NoError(t, store.SaveUser(context.Background(), user))

	c, rec := newJSONContext(e, http.MethodPost, "/", map[string]any{"enabled": true, "password": "segredo"})
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	require.NoError(t, h.ToggleAdmin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User       identity.User `json:"user"`
		AdminToken string        `json:"admin_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.User.IsAdmin)
	assert.NotEmpty(t, body.AdminToken)

	saved, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, saved.IsAdmin)

	c, rec = newJSONContext(e, http.MethodPost, "/", map[string]any{"enabled": false})
	c.SetParamNames("id")
	c.SetParamValues(user.ID)

	require.NoError(t, h.ToggleAdmin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	saved, err = store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, saved.IsAdmin)
}
