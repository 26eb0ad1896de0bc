package controllers

import (
	"net/http"

	"github.com/classwish/classwish-backend/api/middleware"
	"github.com/classwish/classwish-backend/api/responses"
	"github.com/classwish/classwish-backend/api/validators"
	"github.com/classwish/classwish-backend/internal/donors"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

// DonorMe resolves the acting donor's profile, provisioning it on first
// touch.
func DonorMe(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donor service unavailable"))
			return
		}

		result, err := svc.Resolve(ctx, middleware.ActorFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DonorUpdatePreferences saves the donor's anonymity and mail settings.
func DonorUpdatePreferences(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donor service unavailable"))
			return
		}

		var body donors.UpdatePreferencesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.UpdatePreferences(ctx, middleware.ActorFromContext(ctx), body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
