package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to a customer and is what job cards are opened against.
type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GarageID   uuid.UUID `gorm:"column:garage_id;type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Make       string    `gorm:"column:make;not null"`
	Model      string    `gorm:"column:model;not null"`
	Year       int       `gorm:"column:year;not null;default:0"`
	Plate      string    `gorm:"column:plate;not null;default:''"`
	VIN        *string   `gorm:"column:vin"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
