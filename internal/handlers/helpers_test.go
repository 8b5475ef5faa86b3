package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/firezonehub/backend/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Room{}, &models.Item{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func createTestRoom(t *testing.T, db *gorm.DB, name string) models.Room {
	t.Helper()
	room := models.Room{ID: uuid.NewString(), Name: name}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}

func createTestItem(t *testing.T, db *gorm.DB, roomID, userID, userName, nome string, preco float64, qtd int, createdAt time.Time) models.Item {
	t.Helper()
	item := models.Item{
		RoomID:    roomID,
		UserID:    userID,
		UserName:  userName,
		Nome:      nome,
		Preco:     preco,
		Qtd:       qtd,
		CreatedAt: createdAt,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item
}

func newJSONContext(e *echo.Echo, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}
