package controllers

import (
	"net/http"

	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/api/validators"
	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/internal/users"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

// AuthRegister handles email/password signup.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"user":  result.User,
			"token": result.Token,
		})
	}
}

// AuthLogin handles email/password login.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"user":  result.User,
			"token": result.Token,
		})
	}
}

// AuthStatus reports whether the caller's token maps to a live account.
// It answers 200 for every token state; only a store failure is an error.
func AuthStatus(resolver *auth.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch res.Status {
		case auth.StatusOK:
			responses.WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": true,
				"user":          users.FromModel(res.User),
			})
		case auth.StatusUserGone:
			responses.WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": false,
				"error":         "User account no longer exists",
			})
		default:
			responses.WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": false,
			})
		}
	}
}
