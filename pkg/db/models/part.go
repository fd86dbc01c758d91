package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// Part is a catalog item with its stock counters. OnHandQty and WarehouseQty
// are never negative; decrements go through the catalog repository's atomic
// update, not a caller-side read-modify-write.
type Part struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GarageID     uuid.UUID         `gorm:"column:garage_id;type:uuid;not null;uniqueIndex:idx_parts_garage_number"`
	PartNumber   string            `gorm:"column:part_number;type:text;not null;uniqueIndex:idx_parts_garage_number"`
	Name         string            `gorm:"column:name;not null"`
	Category     string            `gorm:"column:category;not null;default:''"`
	Manufacturer string            `gorm:"column:manufacturer;not null;default:''"`
	UnitPrice    decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	OnHandQty    int               `gorm:"column:on_hand_qty;not null;default:0"`
	WarehouseQty int               `gorm:"column:warehouse_qty;not null;default:0"`
	StockStatus  enums.StockStatus `gorm:"column:stock_status;type:text;not null;default:'out_of_stock'"`
	Fitment      pq.StringArray    `gorm:"column:fitment;type:text[]"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
