package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/api/middleware"
	"github.com/garagehub/garagehub-backend/api/responses"
	"github.com/garagehub/garagehub-backend/api/validators"
	"github.com/garagehub/garagehub-backend/internal/allocation"
	"github.com/garagehub/garagehub-backend/internal/jobcards"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

// CreateJobCardRequest opens a repair order.
type CreateJobCardRequest struct {
	Number     string   `json:"number" validate:"max=40"`
	CustomerID *string  `json:"customer_id"`
	VehicleID  *string  `json:"vehicle_id"`
	Complaints []string `json:"complaints" validate:"max=20"`
}

// JobCardsCreate opens a repair order for the caller's garage.
func JobCardsCreate(svc *jobcards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		actorID, err := uuid.Parse(middleware.EmployeeIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity"))
			return
		}

		var body CreateJobCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := jobcards.CreateJobCardDTO{
			GarageID:   garageID,
			Number:     body.Number,
			Complaints: body.Complaints,
			OpenedByID: actorID,
		}
		if body.CustomerID != nil {
			customerID, perr := uuid.Parse(*body.CustomerID)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"customer_id": "must be a UUID"}))
				return
			}
			dto.CustomerID = &customerID
		}
		if body.VehicleID != nil {
			vehicleID, perr := uuid.Parse(*body.VehicleID)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"vehicle_id": "must be a UUID"}))
				return
			}
			dto.VehicleID = &vehicleID
		}

		card, err := svc.Open(r.Context(), dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, card)
	}
}

// JobCardsList pages through the garage's repair orders.
func JobCardsList(svc *jobcards.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, map[string]any{"job_cards": items, "page": page})
	}
}

// JobCardsGet returns one repair order.
func JobCardsGet(svc *jobcards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "jobCardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Get(r.Context(), garageID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

// TransitionJobCardRequest moves a card through its lifecycle.
type TransitionJobCardRequest struct {
	Status string `json:"status" validate:"required"`
}

// JobCardsTransition updates a card's status.
func JobCardsTransition(svc *jobcards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "jobCardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body TransitionJobCardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Transition(r.Context(), garageID, id, enums.JobCardStatus(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}

// AllocatePartsRequest submits part lines against a job card.
type AllocatePartsRequest struct {
	Lines []AllocatePartsLine `json:"lines" validate:"required,min=1,max=50,dive"`
}

// AllocatePartsLine is one requested line.
type AllocatePartsLine struct {
	PartID      *string         `json:"part_id"`
	Description string          `json:"description" validate:"max=240"`
	Qty         int             `json:"qty" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Source      string          `json:"source" validate:"required,oneof=inventory customer external"`
}

// JobCardsAllocateParts runs the allocation coordinator for a card. A 200
// response can still carry per-line failures; callers must inspect the
// per-line outcomes rather than the status code alone.
func JobCardsAllocateParts(svc *jobcards.Service, coord allocation.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		actorID, err := uuid.Parse(middleware.EmployeeIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "jobCardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Tenant check before handing the card id to the coordinator.
		if _, err := svc.Get(r.Context(), garageID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AllocatePartsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]allocation.RequestedLine, 0, len(body.Lines))
		for i, line := range body.Lines {
			requested := allocation.RequestedLine{
				Description: line.Description,
				Qty:         line.Qty,
				UnitPrice:   line.UnitPrice,
				Source:      enums.PartSource(line.Source),
			}
			if line.PartID != nil {
				partID, perr := uuid.Parse(*line.PartID)
				if perr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
						WithDetails(map[string]string{lineField(i): "must be a UUID"}))
					return
				}
				requested.PartID = &partID
			}
			lines = append(lines, requested)
		}

		result, err := coord.Allocate(r.Context(), id, actorID, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func lineField(i int) string {
	return fmt.Sprintf("lines[%d].part_id", i)
}
