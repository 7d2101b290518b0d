package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bullboard/bullboard-backend/api/responses"
	"github.com/bullboard/bullboard-backend/pkg/config"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bullboard-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]any{"status": "live"})
	}
}

// HealthReady verifies the backing stores answer before reporting ready.
func HealthReady(cfg *config.Config, db pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bullboard-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready"})
	}
}
