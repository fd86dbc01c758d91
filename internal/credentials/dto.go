package credentials

import (
	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// CreateCredentialDTO carries the fields for the login record paired with an
// employee. PasswordHash starts out nil; the owner sets it on first sign-in.
type CreateCredentialDTO struct {
	EmployeeID uuid.UUID
	Handle     string
	Role       enums.EmployeeRole
}

// ToModel converts the DTO into the persistence model.
func (d CreateCredentialDTO) ToModel() *models.UserCredential {
	return &models.UserCredential{
		EmployeeID: d.EmployeeID,
		Handle:     d.Handle,
		Role:       d.Role,
		IsActive:   true,
	}
}
