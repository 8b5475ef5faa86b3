package models

import (
	"time"
)

type Room struct {
	ID        string    `gorm:"primaryKey;size:36"  json:"id"`
	Name      string    `gorm:"not null"            json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is one comanda line. CreatedAt doubles as the per-user sort key:
// reordering rewrites it, so it must never be treated as an audit field.
type Item struct {
	ID        int       `gorm:"primaryKey;autoIncrement"  json:"id"`
	RoomID    string    `gorm:"index;not null"            json:"room_id"`
	UserID    string    `gorm:"index;not null"            json:"user_id"`
	UserName  string    `gorm:"not null"                  json:"user_name"`
	Nome      string    `gorm:"not null"                  json:"nome"`
	Preco     float64   `gorm:"not null"                  json:"preco"`
	Qtd       int       `gorm:"not null;check:qtd > 0"    json:"qtd"`
	CreatedAt time.Time `gorm:"index"                     json:"created_at"`
}

func (Item) TableName() string {
	return "comandas"
}

func (i Item) Total() float64 {
	return i.Preco * float64(i.Qtd)
}
