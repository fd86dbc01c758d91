package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/api/middleware"
	"github.com/garagehub/garagehub-backend/api/responses"
	"github.com/garagehub/garagehub-backend/api/validators"
	"github.com/garagehub/garagehub-backend/internal/usage"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

// UsageTop serves ranked dropdown suggestions for one field.
func UsageTop(tracker *usage.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		garageID, err := uuid.Parse(middleware.GarageIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant"))
			return
		}
		field := chi.URLParam(r, "field")
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counters, err := tracker.Top(r.Context(), garageID, field, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"field": field, "values": counters})
	}
}
