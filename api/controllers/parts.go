package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/api/middleware"
	"github.com/garagehub/garagehub-backend/api/responses"
	"github.com/garagehub/garagehub-backend/api/validators"
	"github.com/garagehub/garagehub-backend/internal/catalog"
	"github.com/garagehub/garagehub-backend/internal/ledger"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

// CreatePartRequest adds an item to the garage's catalog.
type CreatePartRequest struct {
	PartNumber   string          `json:"part_number" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=160"`
	Category     string          `json:"category" validate:"max=80"`
	Manufacturer string          `json:"manufacturer" validate:"max=80"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	OnHandQty    int             `json:"on_hand_qty" validate:"min=0"`
	WarehouseQty int             `json:"warehouse_qty" validate:"min=0"`
	Fitment      []string        `json:"fitment" validate:"max=32"`
}

// PartsCreate adds a catalog item.
func PartsCreate(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}

		var body CreatePartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.Create(r.Context(), catalog.CreatePartDTO{
			GarageID:     garageID,
			PartNumber:   body.PartNumber,
			Name:         body.Name,
			Category:     body.Category,
			Manufacturer: body.Manufacturer,
			UnitPrice:    body.UnitPrice,
			OnHandQty:    body.OnHandQty,
			WarehouseQty: body.WarehouseQty,
			Fitment:      body.Fitment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, part)
	}
}

// PartsList pages through the garage's catalog.
func PartsList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, map[string]any{"parts": items, "page": page})
	}
}

// PartsGet returns one catalog item.
func PartsGet(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "partID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.Get(r.Context(), garageID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}

// PartsLedger returns the part's full movement history, oldest first.
func PartsLedger(svc *catalog.Service, entries *ledger.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "partID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Tenant check before exposing movement history.
		if _, err := svc.Get(r.Context(), garageID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, err := entries.ListByPart(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ledger"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"entries": movements})
	}
}
