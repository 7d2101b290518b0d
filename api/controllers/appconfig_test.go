package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bullboard/bullboard-backend/internal/appconfig"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
)

type stubConfigService struct {
	entry *appconfig.Entry
	err   error

	sets map[string]string
}

func (s *stubConfigService) Get(_ context.Context, _ string) (*appconfig.Entry, error) {
	return s.entry, s.err
}

func (s *stubConfigService) Set(_ context.Context, key, value string) (*appconfig.Entry, error) {
	if s.sets == nil {
		s.sets = map[string]string{}
	}
	s.sets[key] = value
	return s.entry, s.err
}

func configRouter(svc appconfig.Service) chi.Router {
	r := chi.NewRouter()
	r.Get("/config/{key}", ConfigGet(svc, nil))
	r.Put("/config/{key}", ConfigSet(svc, nil))
	return r
}

func TestConfigGetReturnsEntry(t *testing.T) {
	svc := &stubConfigService{entry: &appconfig.Entry{Key: "board-title", Value: "Bulletin"}}
	router := configRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/config/board-title", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Success bool             `json:"success"`
		Config  *appconfig.Entry `json:"config"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || envelope.Config == nil || envelope.Config.Value != "Bulletin" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestConfigGetMissingKey(t *testing.T) {
	svc := &stubConfigService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Config entry not found")}
	router := configRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/config/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestConfigSetWritesValue(t *testing.T) {
	svc := &stubConfigService{entry: &appconfig.Entry{Key: "board-title", Value: "Renamed"}}
	router := configRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/config/board-title", bytes.NewReader([]byte(`{"value":"Renamed"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.sets["board-title"] != "Renamed" {
		t.Fatalf("expected set call, got %v", svc.sets)
	}
}

func TestConfigSetRequiresValue(t *testing.T) {
	router := configRouter(&stubConfigService{})

	req := httptest.NewRequest(http.MethodPut, "/config/board-title", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
