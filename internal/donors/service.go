package donors

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/db"
	"github.com/classwish/classwish-backend/pkg/db/models"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
	"github.com/classwish/classwish-backend/pkg/metrics"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service provisions donor profiles on demand and keeps the session cache honest.
type Service interface {
	Resolve(ctx context.Context, actor profiles.Actor) (*DonorProfileDTO, error)
	Reconcile(ctx context.Context, actor profiles.Actor) (*DonorProfileDTO, error)
	UpdatePreferences(ctx context.Context, actor profiles.Actor, req UpdatePreferencesRequest) (*DonorProfileDTO, error)
}

type profileStore interface {
	FindDonorByProfile(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error)
	CreateDonor(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error)
	UpdateDonorPreferences(ctx context.Context, donorID uuid.UUID, update profiles.DonorPreferencesUpdate) (*models.DonorProfile, error)
}

type profileCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DonorProfileKey(profileID string) string
}

// ServiceParams bundles the dependencies for the donor provisioning service.
type ServiceParams struct {
	Store    profileStore
	Cache    profileCache
	Logger   *logger.Logger
	Metrics  *metrics.PlatformMetrics
	CacheTTL time.Duration
}

type service struct {
	store    profileStore
	cache    profileCache
	logg     *logger.Logger
	metrics  *metrics.PlatformMetrics
	cacheTTL time.Duration
}

// NewService constructs a donor provisioning service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile store is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile cache is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &service{
		store:    params.Store,
		cache:    params.Cache,
		logg:     params.Logger,
		metrics:  params.Metrics,
		cacheTTL: ttl,
	}, nil
}

// Resolve returns the donor profile for the acting account, creating one
// with zeroed stats on first touch. The cache is consulted first but is
// only ever a hint; the store settles every miss and every doubt.
func (s *service) Resolve(ctx context.Context, actor profiles.Actor) (*DonorProfileDTO, error) {
	if err := s.ensureDonorActor(actor); err != nil {
		return nil, err
	}

	if cached := s.readCache(ctx, actor.ProfileID); cached != nil {
		s.metrics.IncProvision("cache")
		return cached, nil
	}

	return s.resolveFromStore(ctx, actor.ProfileID)
}

// Reconcile discards the cached profile and re-resolves from the store.
// Callers invoke it after a row-ownership rejection, then retry the
// downstream operation exactly once with the corrected profile.
func (s *service) Reconcile(ctx context.Context, actor profiles.Actor) (*DonorProfileDTO, error) {
	if err := s.ensureDonorActor(actor); err != nil {
		return nil, err
	}

	key := s.cache.DonorProfileKey(actor.ProfileID.String())
	if err := s.cache.Del(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithProfileID(ctx, actor.ProfileID.String()), "donor cache invalidation failed")
	}

	dto, err := s.resolveFromStore(ctx, actor.ProfileID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncProvision("reconciled")
	return dto, nil
}

// UpdatePreferences applies donor preference changes and refreshes the cache.
func (s *service) UpdatePreferences(ctx context.Context, actor profiles.Actor, req UpdatePreferencesRequest) (*DonorProfileDTO, error) {
	current, err := s.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if req.IsAnonymousByDefault == nil && req.ReceivesUpdatesEmail == nil {
		return current, nil
	}

	updated, err := s.store.UpdateDonorPreferences(ctx, current.ID, profiles.DonorPreferencesUpdate{
		IsAnonymousByDefault: req.IsAnonymousByDefault,
		ReceivesUpdatesEmail: req.ReceivesUpdatesEmail,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update donor preferences")
	}

	dto := FromModel(updated)
	s.writeCache(ctx, actor.ProfileID, dto)
	return dto, nil
}

func (s *service) ensureDonorActor(actor profiles.Actor) error {
	if !actor.Valid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated account required")
	}
	if !actor.IsDonor() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "donor role required")
	}
	return nil
}

func (s *service) resolveFromStore(ctx context.Context, profileID uuid.UUID) (*DonorProfileDTO, error) {
	donor, err := s.store.FindDonorByProfile(ctx, profileID)
	if err == nil {
		dto := FromModel(donor)
		s.writeCache(ctx, profileID, dto)
		s.metrics.IncProvision("store")
		return dto, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donor profile")
	}

	created, err := s.store.CreateDonor(ctx, profileID)
	if err == nil {
		dto := FromModel(created)
		s.writeCache(ctx, profileID, dto)
		s.metrics.IncProvision("created")
		return dto, nil
	}

	// A concurrent request may have won the insert. The unique constraint
	// on profile_id is the arbiter; the loser re-fetches the winner's row
	// and must not surface an error.
	if db.IsUniqueViolation(err, "donor_profiles") {
		winner, fetchErr := s.store.FindDonorByProfile(ctx, profileID)
		if fetchErr == nil {
			dto := FromModel(winner)
			s.writeCache(ctx, profileID, dto)
			s.metrics.IncProvision("race")
			return dto, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeProfileUnavailable, fetchErr, "donor profile provisioning raced and re-fetch failed")
	}

	return nil, pkgerrors.Wrap(pkgerrors.CodeProfileUnavailable, err, "donor profile provisioning failed")
}

func (s *service) readCache(ctx context.Context, profileID uuid.UUID) *DonorProfileDTO {
	key := s.cache.DonorProfileKey(profileID.String())
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			s.logg.Warn(s.logg.WithProfileID(ctx, profileID.String()), "donor cache read failed")
		}
		return nil
	}

	var dto DonorProfileDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil || !dto.structurallyValid() || dto.ProfileID != profileID {
		// Corrupt or foreign entries are evicted, never trusted.
		if delErr := s.cache.Del(ctx, key); delErr != nil {
			s.logg.Warn(s.logg.WithProfileID(ctx, profileID.String()), "donor cache eviction failed")
		}
		return nil
	}
	return &dto
}

func (s *service) writeCache(ctx context.Context, profileID uuid.UUID, dto *DonorProfileDTO) {
	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}
	key := s.cache.DonorProfileKey(profileID.String())
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithProfileID(ctx, profileID.String()), "donor cache write failed")
	}
}
