package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// UserCredential is the login record paired one-to-one with an Employee. The
// handle and role are duplicated for fast lookup at login. PasswordHash stays
// NULL until the owner sets a password on first sign-in.
type UserCredential struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID   uuid.UUID          `gorm:"column:employee_id;type:uuid;not null;uniqueIndex"`
	Handle       string             `gorm:"column:handle;type:text;not null;uniqueIndex"`
	Role         enums.EmployeeRole `gorm:"column:role;type:employee_role_enum;not null"`
	PasswordHash *string            `gorm:"column:password_hash"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
