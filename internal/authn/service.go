package authn

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/internal/credentials"
	"github.com/garagehub/garagehub-backend/internal/employees"
	pkgauth "github.com/garagehub/garagehub-backend/pkg/auth"
	"github.com/garagehub/garagehub-backend/pkg/config"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/security"
)

// Service signs staff in by handle. Credentials start with no password; the
// first successful SetPassword activates the login.
type Service struct {
	credentials *credentials.Repository
	employees   *employees.Repository
	jwt         config.JWTConfig
	password    config.PasswordConfig
	clock       func() time.Time
}

func NewService(creds *credentials.Repository, emps *employees.Repository, jwt config.JWTConfig, password config.PasswordConfig) *Service {
	return &Service{
		credentials: creds,
		employees:   emps,
		jwt:         jwt,
		password:    password,
		clock:       time.Now,
	}
}

// LoginRequest identifies the caller by their canonical handle.
type LoginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the access token and the caller's profile summary.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	EmployeeID  string `json:"employee_id"`
	GarageID    string `json:"garage_id"`
	Handle      string `json:"handle"`
	Role        string `json:"role"`
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	credential, err := s.credentials.FindByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load credential")
	}
	if !credential.IsActive || credential.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(req.Password, *credential.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	employee, err := s.employees.FindByID(ctx, credential.EmployeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load employee")
	}
	if !employee.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := pkgauth.MintAccessToken(s.jwt, s.clock(), pkgauth.AccessTokenPayload{
		EmployeeID: employee.ID,
		GarageID:   employee.GarageID,
		Handle:     employee.Handle,
		Role:       employee.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &LoginResult{
		AccessToken: token,
		EmployeeID:  employee.ID.String(),
		GarageID:    employee.GarageID.String(),
		Handle:      employee.Handle,
		Role:        employee.Role.String(),
	}, nil
}

// SetPasswordRequest sets the initial password, or rotates it when the
// current one is supplied.
type SetPasswordRequest struct {
	Handle          string `json:"handle" validate:"required"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=10,max=128"`
}

func (s *Service) SetPassword(ctx context.Context, req SetPasswordRequest) error {
	credential, err := s.credentials.FindByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "credential not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load credential")
	}

	// A credential that already has a password requires the current one.
	if credential.PasswordHash != nil {
		ok, verr := security.VerifyPassword(req.CurrentPassword, *credential.PasswordHash)
		if verr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, verr, "verify password")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
	}

	hash, err := security.HashPassword(req.NewPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.credentials.SetPasswordHash(ctx, credential.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store password")
	}
	return nil
}
