package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classwish/classwish-backend/api/middleware"
	"github.com/classwish/classwish-backend/api/responses"
	"github.com/classwish/classwish-backend/api/validators"
	"github.com/classwish/classwish-backend/internal/projects"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

func parseProjectID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "projectId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project id")
	}
	return id, nil
}

// TeacherCreateProject creates a draft project for the acting teacher.
func TeacherCreateProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		var body projects.CreateProjectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, middleware.ActorFromContext(ctx), body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// TeacherUpdateProject saves edits while the project is still editable.
func TeacherUpdateProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body projects.UpdateProjectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Update(ctx, middleware.ActorFromContext(ctx), projectID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TeacherSubmitProject moves a draft into the review queue.
func TeacherSubmitProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.SubmitForReview(ctx, middleware.ActorFromContext(ctx), projectID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type resetProjectPayload struct {
	AcknowledgeDenial bool `json:"acknowledge_denial"`
}

// TeacherResetProject pulls a reviewed project back to draft for rework.
// A denied project additionally requires the teacher to acknowledge the
// denial before the reset is accepted.
func TeacherResetProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		projectID, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body resetProjectPayload
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		result, err := svc.ResetToDraft(ctx, middleware.ActorFromContext(ctx), projectID, body.AcknowledgeDenial)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TeacherListProjects returns every project owned by the acting teacher.
func TeacherListProjects(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		items, err := svc.ListOwn(ctx, middleware.ActorFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
