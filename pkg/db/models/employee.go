package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// Employee is the primary staff identity record. The garage display name is
// denormalized onto every employee so tenant metadata can be inherited from
// the owner row when provisioning new staff.
type Employee struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GarageID   uuid.UUID          `gorm:"column:garage_id;type:uuid;not null;index"`
	GarageName string             `gorm:"column:garage_name;not null"`
	Handle     string             `gorm:"column:handle;type:text;not null;uniqueIndex"`
	FirstName  string             `gorm:"column:first_name;not null"`
	LastName   string             `gorm:"column:last_name;not null"`
	Role       enums.EmployeeRole `gorm:"column:role;type:employee_role_enum;not null"`
	Email      string             `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone      string             `gorm:"column:phone;not null"`
	IsActive   bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
