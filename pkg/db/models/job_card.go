package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// JobCard is a repair order. EstimatedPartsCost is recomputed whenever parts
// are allocated to the card.
type JobCard struct {
	ID                 uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GarageID           uuid.UUID           `gorm:"column:garage_id;type:uuid;not null;index"`
	Number             string              `gorm:"column:number;type:text;not null"`
	CustomerID         *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	VehicleID          *uuid.UUID          `gorm:"column:vehicle_id;type:uuid"`
	Status             enums.JobCardStatus `gorm:"column:status;type:job_card_status_enum;not null;default:'open'"`
	Complaints         pq.StringArray      `gorm:"column:complaints;type:text[]"`
	EstimatedPartsCost decimal.Decimal     `gorm:"column:estimated_parts_cost;type:numeric(12,2);not null;default:0"`
	OpenedByID         uuid.UUID           `gorm:"column:opened_by_id;type:uuid;not null"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
