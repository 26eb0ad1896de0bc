package wishlist

import (
	"context"
	"errors"

	"github.com/classwish/classwish-backend/internal/donors"
	"github.com/classwish/classwish-backend/internal/profiles"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
	"github.com/classwish/classwish-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service coordinates wishlist membership for donors.
type Service interface {
	Toggle(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (ToggleResultDTO, error)
	List(ctx context.Context, actor profiles.Actor, cursor string, limit int) (WishlistPageDTO, error)
	ListIDs(ctx context.Context, actor profiles.Actor) (WishlistIDsDTO, error)
}

type wishlistRepository interface {
	VerifyOwnership(ctx context.Context, donorProfileID, profileID uuid.UUID) error
	Exists(ctx context.Context, donorProfileID, projectID uuid.UUID) (bool, error)
	Add(ctx context.Context, donorProfileID, projectID uuid.UUID) error
	Remove(ctx context.Context, donorProfileID, projectID uuid.UUID) error
	ListEntries(ctx context.Context, donorProfileID uuid.UUID, cursor string, limit int) (WishlistPageDTO, error)
	ListProjectIDs(ctx context.Context, donorProfileID uuid.UUID) (WishlistIDsDTO, error)
}

type projectChecker interface {
	Exists(ctx context.Context, projectID uuid.UUID) error
}

// ServiceParams groups dependencies for the wishlist coordinator.
type ServiceParams struct {
	Repo     wishlistRepository
	Donors   donors.Service
	Projects projectChecker
	Logger   *logger.Logger
	Metrics  *metrics.PlatformMetrics
}

type service struct {
	repo     wishlistRepository
	donors   donors.Service
	projects projectChecker
	logg     *logger.Logger
	metrics  *metrics.PlatformMetrics
}

// NewService builds a wishlist coordinator with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Donors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor service is required")
	}
	if params.Projects == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project checker is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		donors:   params.Donors,
		projects: params.Projects,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Toggle flips wishlist membership for the acting donor. The donor profile
// comes from the provisioning service first; an ownership rejection from
// the store triggers exactly one reconciliation and one retry before the
// failure is terminal.
func (s *service) Toggle(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (ToggleResultDTO, error) {
	if projectID == uuid.Nil {
		return ToggleResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}

	donor, err := s.donors.Resolve(ctx, actor)
	if err != nil {
		return ToggleResultDTO{}, err
	}

	if err := s.projects.Exists(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	result, err := s.attemptToggle(ctx, donor.ID, actor.ProfileID, projectID)
	if !errors.Is(err, ErrOwnershipMismatch) {
		return result, err
	}

	// The cached identity was stale. Reconcile once, retry once.
	s.logg.Warn(s.logg.WithProfileID(ctx, actor.ProfileID.String()), "wishlist ownership mismatch, reconciling donor profile")
	reconciled, rerr := s.donors.Reconcile(ctx, actor)
	if rerr != nil {
		return ToggleResultDTO{}, rerr
	}

	result, err = s.attemptToggle(ctx, reconciled.ID, actor.ProfileID, projectID)
	if errors.Is(err, ErrOwnershipMismatch) {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "donor identity could not be reconciled")
	}
	return result, err
}

func (s *service) attemptToggle(ctx context.Context, donorProfileID, profileID, projectID uuid.UUID) (ToggleResultDTO, error) {
	if err := s.repo.VerifyOwnership(ctx, donorProfileID, profileID); err != nil {
		if errors.Is(err, ErrOwnershipMismatch) {
			return ToggleResultDTO{}, err
		}
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify donor ownership")
	}

	exists, err := s.repo.Exists(ctx, donorProfileID, projectID)
	if err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist membership")
	}

	if exists {
		if err := s.repo.Remove(ctx, donorProfileID, projectID); err != nil {
			return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
		}
		s.metrics.IncToggle("removed")
		return ToggleResultDTO{InWishlist: false}, nil
	}

	if err := s.repo.Add(ctx, donorProfileID, projectID); err != nil {
		return ToggleResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}
	s.metrics.IncToggle("added")
	return ToggleResultDTO{InWishlist: true}, nil
}

// List returns the paginated wishlist for the acting donor.
func (s *service) List(ctx context.Context, actor profiles.Actor, cursor string, limit int) (WishlistPageDTO, error) {
	donor, err := s.donors.Resolve(ctx, actor)
	if err != nil {
		return WishlistPageDTO{}, err
	}
	page, err := s.repo.ListEntries(ctx, donor.ID, cursor, limit)
	if err != nil {
		return WishlistPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return page, nil
}

// ListIDs returns every wishlisted project id for the acting donor.
func (s *service) ListIDs(ctx context.Context, actor profiles.Actor) (WishlistIDsDTO, error) {
	donor, err := s.donors.Resolve(ctx, actor)
	if err != nil {
		return WishlistIDsDTO{}, err
	}
	ids, err := s.repo.ListProjectIDs(ctx, donor.ID)
	if err != nil {
		return WishlistIDsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist ids")
	}
	return ids, nil
}
