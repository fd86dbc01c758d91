package employees

import (
	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// CreateEmployeeDTO carries the fields needed to insert a staff identity.
type CreateEmployeeDTO struct {
	GarageID   uuid.UUID
	GarageName string
	Handle     string
	FirstName  string
	LastName   string
	Role       enums.EmployeeRole
	Email      string
	Phone      string
}

// ToModel converts the DTO into the persistence model.
func (d CreateEmployeeDTO) ToModel() *models.Employee {
	return &models.Employee{
		GarageID:   d.GarageID,
		GarageName: d.GarageName,
		Handle:     d.Handle,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Role:       d.Role,
		Email:      d.Email,
		Phone:      d.Phone,
		IsActive:   true,
	}
}

// ProvisionInput is the validated request for creating a staff identity with
// its paired credential.
type ProvisionInput struct {
	OwnerID   uuid.UUID
	FirstName string
	LastName  string
	Role      enums.EmployeeRole
	Email     string
	Phone     string
}

// ProvisionSummary is what callers get back. The credential is created with a
// NULL password hash and is deliberately not part of the response.
type ProvisionSummary struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Handle     string    `json:"handle"`
}
