package middleware

import (
	"net/http"

	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

// RequireAdminAccess gates a route behind admin or super admin role.
// It must run after Auth.
func RequireAdminAccess(policy *auth.Policy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.RequireAdminAccess(UserFromContext(r.Context())); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin gates a route behind the super admin role.
// It must run after Auth.
func RequireSuperAdmin(policy *auth.Policy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.RequireSuperAdmin(UserFromContext(r.Context())); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
