package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bullboard/bullboard-backend/internal/auth"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
)

type stubGoogleService struct {
	authURL string
	result  *auth.Result
	err     error

	completedCodes []string
}

func (s *stubGoogleService) AuthURL(state string) string {
	return s.authURL + "&state=" + state
}

func (s *stubGoogleService) Complete(_ context.Context, code string) (*auth.Result, error) {
	s.completedCodes = append(s.completedCodes, code)
	return s.result, s.err
}

const googleTestFrontend = "https://board.example"

func runGoogleAuth(t *testing.T, svc auth.GoogleService, target string) *httptest.ResponseRecorder {
	t.Helper()
	handler := GoogleAuth(svc, googleTestFrontend+"/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
	return resp
}

func redirectTarget(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", resp.Code)
	}
	return resp.Header().Get("Location")
}

func TestGoogleAuthStartsFlow(t *testing.T) {
	svc := &stubGoogleService{authURL: "https://accounts.google.com/o/oauth2/auth?client_id=x"}
	location := redirectTarget(t, runGoogleAuth(t, svc, "/auth/google"))

	if !strings.HasPrefix(location, "https://accounts.google.com/") {
		t.Fatalf("expected redirect to the provider, got %s", location)
	}
	if !strings.Contains(location, "state=") {
		t.Fatalf("expected a state parameter, got %s", location)
	}
}

func TestGoogleAuthCompletesWithToken(t *testing.T) {
	svc := &stubGoogleService{result: &auth.Result{Token: "signed token"}}
	location := redirectTarget(t, runGoogleAuth(t, svc, "/auth/google?code=abc"))

	want := googleTestFrontend + "/index.html?token=" + url.QueryEscape("signed token")
	if location != want {
		t.Fatalf("location = %s, want %s", location, want)
	}
	if len(svc.completedCodes) != 1 || svc.completedCodes[0] != "abc" {
		t.Fatalf("expected exchange of code abc, got %v", svc.completedCodes)
	}
}

func TestGoogleAuthProviderError(t *testing.T) {
	svc := &stubGoogleService{}
	location := redirectTarget(t, runGoogleAuth(t, svc, "/auth/google?error=access_denied"))

	want := googleTestFrontend + "/login.html?error=" + url.QueryEscape("Google sign-in was cancelled: access_denied")
	if location != want {
		t.Fatalf("location = %s, want %s", location, want)
	}
	if len(svc.completedCodes) != 0 {
		t.Fatalf("provider errors must never reach the exchange")
	}
}

func TestGoogleAuthExchangeFailure(t *testing.T) {
	svc := &stubGoogleService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Google sign-in failed")}
	location := redirectTarget(t, runGoogleAuth(t, svc, "/auth/google?code=bad"))

	want := googleTestFrontend + "/login.html?error=" + url.QueryEscape("Google sign-in failed")
	if location != want {
		t.Fatalf("location = %s, want %s", location, want)
	}
}

func TestGoogleAuthUnconfigured(t *testing.T) {
	location := redirectTarget(t, runGoogleAuth(t, nil, "/auth/google"))

	want := googleTestFrontend + "/login.html?error=" + url.QueryEscape("Google sign-in is not configured")
	if location != want {
		t.Fatalf("location = %s, want %s", location, want)
	}
}
