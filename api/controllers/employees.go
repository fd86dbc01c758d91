package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/api/middleware"
	"github.com/garagehub/garagehub-backend/api/responses"
	"github.com/garagehub/garagehub-backend/api/validators"
	"github.com/garagehub/garagehub-backend/internal/employees"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

// CreateEmployeeRequest is the staff provisioning payload. The new hire's
// handle is derived server-side; the caller never chooses it.
type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=80"`
	LastName  string `json:"last_name" validate:"required,max=80"`
	Role      string `json:"role" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// EmployeesCreate provisions a staff identity with its paired credential.
func EmployeesCreate(prov employees.Provisioner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseEmployeeRole(body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"role": "is not a recognized role"}))
			return
		}

		ownerID, err := uuid.Parse(middleware.EmployeeIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity"))
			return
		}

		summary, err := prov.Provision(r.Context(), employees.ProvisionInput{
			OwnerID:   ownerID,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Role:      role,
			Email:     body.Email,
			Phone:     body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// EmployeesList returns the garage's staff page by page.
func EmployeesList(svc *employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, page, err := svc.List(r.Context(), garageID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"employees": items, "page": page})
	}
}

// EmployeesGet returns one staff member.
func EmployeesGet(svc *employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "employeeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Get(r.Context(), garageID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employee)
	}
}

// SetEmployeeActiveRequest toggles a staff member's active flag.
type SetEmployeeActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// EmployeesSetActive activates or deactivates a staff member.
func EmployeesSetActive(svc *employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "employeeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body SetEmployeeActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetActive(r.Context(), garageID, id, *body.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"employee_id": id, "active": *body.Active})
	}
}
