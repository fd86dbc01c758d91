package auth

import (
	"github.com/garagehub/garagehub-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	EmployeeID uuid.UUID
	GarageID   uuid.UUID
	Handle     string
	Role       enums.EmployeeRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	EmployeeID uuid.UUID          `json:"employee_id"`
	GarageID   uuid.UUID          `json:"garage_id"`
	Handle     string             `json:"handle"`
	Role       enums.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}
