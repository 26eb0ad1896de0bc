package controllers

import (
	"context"
	"net/http"

	"github.com/classwish/classwish-backend/api/responses"
	"github.com/classwish/classwish-backend/api/validators"
	"github.com/classwish/classwish-backend/internal/auth"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

// loginHandler is shared by the public and admin login endpoints; only the
// service method differs. The minted token is echoed in the X-CW-Token
// header for clients that read it there instead of the body.
func loginHandler(login func(context.Context, auth.LoginRequest) (*auth.LoginResponse, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if login == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-CW-Token", result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogin authenticates teachers and donors.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return loginHandler(nil, logg)
	}
	return loginHandler(svc.Login, logg)
}

// AdminAuthLogin authenticates admins; non-admin credentials are rejected by
// the service.
func AdminAuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return loginHandler(nil, logg)
	}
	return loginHandler(svc.AdminLogin, logg)
}
