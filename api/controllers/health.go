package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/classwish/classwish-backend/api/responses"
	"github.com/classwish/classwish-backend/pkg/config"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ClassWish-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and aggregates the failures so
// a single probe reports all broken backends at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ClassWish-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs error
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "postgres"))
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis"))
			}
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
