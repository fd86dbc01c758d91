package controllers

import (
	"net/http"

	"github.com/garagehub/garagehub-backend/api/responses"
	"github.com/garagehub/garagehub-backend/api/validators"
	"github.com/garagehub/garagehub-backend/internal/authn"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

// AuthLogin exchanges handle+password for an access token.
func AuthLogin(svc *authn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body authn.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthSetPassword sets the initial password for a freshly provisioned
// credential, or rotates an existing one.
func AuthSetPassword(svc *authn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body authn.SetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPassword(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password_set"})
	}
}
