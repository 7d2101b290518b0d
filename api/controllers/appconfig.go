package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/api/validators"
	"github.com/bullboard/bullboard-backend/internal/appconfig"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

// ConfigGet reads one app configuration entry.
func ConfigGet(svc appconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := svc.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"config": entry})
	}
}

type configSetRequest struct {
	Value string `json:"value" validate:"required"`
}

// ConfigSet writes one app configuration entry. Admin only; the route
// carries the role middleware.
func ConfigSet(svc appconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body configSetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Set(r.Context(), chi.URLParam(r, "key"), body.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"config": entry})
	}
}
