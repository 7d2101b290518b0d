package middleware

import (
	"net/http"

	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/internal/auth"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

// Auth resolves the bearer token against the user store and seeds the
// request context with the live user record. Tokens for deleted accounts
// are rejected exactly like missing credentials.
func Auth(resolver *auth.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			switch res.Status {
			case auth.StatusNoToken:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
				return
			case auth.StatusInvalidToken:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid token"))
				return
			case auth.StatusUserGone:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "User account no longer exists"))
				return
			}

			ctx := WithUser(r.Context(), res.User)
			if logg != nil {
				ctx = logg.WithUserID(ctx, res.User.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
