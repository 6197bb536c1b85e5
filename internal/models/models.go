package models

import (
	"time"

	"github.com/google/uuid"
)

// Outlet и Table принадлежат сервису управления ресторанами, здесь они только читаются.

type Outlet struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	QueueEnabled bool      `gorm:"default:true" json:"queue_enabled"` // Разрешена ли живая очередь
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Table struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OutletID    uuid.UUID `gorm:"type:uuid;index;not null" json:"outlet_id"`
	TableNumber string    `gorm:"size:20;not null" json:"table_number"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Section     string    `gorm:"size:50" json:"section,omitempty"` // Зал, терраса и т.п.
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Table) TableName() string { return "restaurant_tables" }
