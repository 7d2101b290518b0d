package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/bullboard/bullboard-backend/internal/auth"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

// GoogleAuth drives the browser OAuth flow on a single GET route. Every
// outcome is a redirect back to the frontend; this endpoint never renders
// JSON because the user agent is a browser mid-flow, not an API client.
func GoogleAuth(svc auth.GoogleService, frontendBaseURL string, logg *logger.Logger) http.HandlerFunc {
	base := strings.TrimRight(frontendBaseURL, "/")

	failure := func(w http.ResponseWriter, r *http.Request, message string) {
		http.Redirect(w, r, base+"/login.html?error="+url.QueryEscape(message), http.StatusFound)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if providerErr := query.Get("error"); providerErr != "" {
			failure(w, r, "Google sign-in was cancelled: "+providerErr)
			return
		}

		if svc == nil {
			failure(w, r, "Google sign-in is not configured")
			return
		}

		code := query.Get("code")
		if code == "" {
			http.Redirect(w, r, svc.AuthURL(uuid.NewString()), http.StatusFound)
			return
		}

		result, err := svc.Complete(r.Context(), code)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "google sign-in failed", err)
			}
			failure(w, r, "Google sign-in failed")
			return
		}

		http.Redirect(w, r, base+"/index.html?token="+url.QueryEscape(result.Token), http.StatusFound)
	}
}
