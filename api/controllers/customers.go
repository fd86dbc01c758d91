package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/api/middleware"
	"github.com/garagehub/garagehub-backend/api/responses"
	"github.com/garagehub/garagehub-backend/api/validators"
	"github.com/garagehub/garagehub-backend/internal/customers"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

// CreateCustomerRequest registers a new client for the garage.
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=80"`
	LastName  string  `json:"last_name" validate:"required,max=80"`
	Phone     string  `json:"phone" validate:"max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

func CustomersCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}

		var body CreateCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateCustomer(r.Context(), customers.CreateCustomerInput{
			GarageID:  garageID,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Phone:     body.Phone,
			Email:     body.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func CustomersList(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
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

		items, page, err := svc.ListCustomers(r.Context(), garageID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customers": items, "page": page})
	}
}

func CustomersGet(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), garageID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// CreateVehicleRequest registers a vehicle under a customer.
type CreateVehicleRequest struct {
	Make  string  `json:"make" validate:"required,max=60"`
	Model string  `json:"model" validate:"required,max=60"`
	Year  int     `json:"year" validate:"omitempty,min=1900"`
	Plate string  `json:"plate" validate:"max=16"`
	VIN   *string `json:"vin" validate:"omitempty,len=17"`
}

func VehiclesCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		customerID, err := validators.ParseUUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body CreateVehicleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.CreateVehicle(r.Context(), customers.CreateVehicleInput{
			GarageID:   garageID,
			CustomerID: customerID,
			Make:       body.Make,
			Model:      body.Model,
			Year:       body.Year,
			Plate:      body.Plate,
			VIN:        body.VIN,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

func VehiclesList(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		customerID, err := validators.ParseUUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicles, err := svc.ListVehicles(r.Context(), garageID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"vehicles": vehicles})
	}
}
