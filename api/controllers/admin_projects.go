package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classwish/classwish-backend/api/middleware"
	"github.com/classwish/classwish-backend/api/responses"
	"github.com/classwish/classwish-backend/api/validators"
	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/internal/projects"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

type reviewNotePayload struct {
	Note string `json:"note,omitempty"`
}

// AdminReviewQueue lists projects awaiting review, oldest context first.
func AdminReviewQueue(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := svc.ListReviewQueue(ctx, middleware.ActorFromContext(ctx), cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminApproveProject publishes a pending project. The note is optional.
func AdminApproveProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body reviewNotePayload
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		var note *string
		if trimmed := strings.TrimSpace(body.Note); trimmed != "" {
			note = &trimmed
		}

		result, err := svc.Approve(ctx, middleware.ActorFromContext(ctx), projectID, note)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminRequestRevision sends a pending project back to its teacher with
// mandatory feedback.
func AdminRequestRevision(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body reviewNotePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.RequestRevision(ctx, middleware.ActorFromContext(ctx), projectID, strings.TrimSpace(body.Note))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminDenyProject rejects a pending project with mandatory feedback.
func AdminDenyProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body reviewNotePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Deny(ctx, middleware.ActorFromContext(ctx), projectID, strings.TrimSpace(body.Note))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminMarkFunded records that an approved project reached its goal.
func AdminMarkFunded(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.MarkFunded(ctx, middleware.ActorFromContext(ctx), projectID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminCompleteProject closes out a funded project.
func AdminCompleteProject(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.Complete(ctx, middleware.ActorFromContext(ctx), projectID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type teacherStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// AdminSetTeacherStatus vets a teacher account, activating or suspending it.
func AdminSetTeacherStatus(svc profiles.TeacherAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "teacherId"))
		teacherID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid teacher id"))
			return
		}

		var body teacherStatusPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := enums.ParseTeacherAccountStatus(body.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account status"))
			return
		}

		result, err := svc.SetTeacherStatus(ctx, middleware.ActorFromContext(ctx), teacherID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
