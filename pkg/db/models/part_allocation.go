package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// PartAllocation is a job-card line item. PartID is NULL for
// customer-supplied parts; category/manufacturer are copied from the catalog
// at allocation time so later catalog edits do not rewrite history.
type PartAllocation struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	JobCardID     uuid.UUID              `gorm:"column:job_card_id;type:uuid;not null;index"`
	PartID        *uuid.UUID             `gorm:"column:part_id;type:uuid"`
	Description   string                 `gorm:"column:description;not null;default:''"`
	Qty           int                    `gorm:"column:qty;not null"`
	UnitPrice     decimal.Decimal        `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	Source        enums.PartSource       `gorm:"column:source;type:part_source_enum;not null"`
	Status        enums.AllocationStatus `gorm:"column:status;type:allocation_status_enum;not null;default:'requested'"`
	Category      string                 `gorm:"column:category;not null;default:''"`
	Manufacturer  string                 `gorm:"column:manufacturer;not null;default:''"`
	RequestedByID uuid.UUID              `gorm:"column:requested_by_id;type:uuid;not null"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
