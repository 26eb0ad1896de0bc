package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/classwish/classwish-backend/api/responses"
	"github.com/classwish/classwish-backend/api/validators"
	"github.com/classwish/classwish-backend/internal/categories"
	"github.com/classwish/classwish-backend/internal/projects"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

type categoryLister interface {
	List(ctx context.Context) ([]categories.CategoryDTO, error)
}

// PublicProjectsList returns the browsable catalog of approved projects.
func PublicProjectsList(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		page, err := svc.ListApproved(ctx, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PublicProjectDetail returns a single publicly visible project.
func PublicProjectDetail(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.GetPublic(ctx, projectID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PublicCategories lists the admin-managed category taxonomy.
func PublicCategories(repo categoryLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if repo == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category store unavailable"))
			return
		}

		items, err := repo.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
