package donors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/db/models"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type stubStore struct {
	donorsByProfile map[uuid.UUID]*models.DonorProfile
	findErr         error
	createErr       error
	findCalls       int
	createCalls     int
	prefCalls       int
	findCallsHook   func(calls int)
}

func newStubStore() *stubStore {
	return &stubStore{donorsByProfile: make(map[uuid.UUID]*models.DonorProfile)}
}

func (s *stubStore) FindDonorByProfile(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error) {
	s.findCalls++
	if s.findCallsHook != nil {
		s.findCallsHook(s.findCalls)
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	donor, ok := s.donorsByProfile[profileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return donor, nil
}

func (s *stubStore) CreateDonor(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	donor := &models.DonorProfile{
		ID:                   uuid.New(),
		ProfileID:            profileID,
		ReceivesUpdatesEmail: true,
	}
	s.donorsByProfile[profileID] = donor
	return donor, nil
}

func (s *stubStore) UpdateDonorPreferences(ctx context.Context, donorID uuid.UUID, update profiles.DonorPreferencesUpdate) (*models.DonorProfile, error) {
	s.prefCalls++
	for _, donor := range s.donorsByProfile {
		if donor.ID != donorID {
			continue
		}
		if update.IsAnonymousByDefault != nil {
			donor.IsAnonymousByDefault = *update.IsAnonymousByDefault
		}
		if update.ReceivesUpdatesEmail != nil {
			donor.ReceivesUpdatesEmail = *update.ReceivesUpdatesEmail
		}
		return donor, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCache struct {
	data     map[string]string
	getErr   error
	delCalls int
	setCalls int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (c *stubCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	value, ok := c.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.setCalls++
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *stubCache) Del(ctx context.Context, keys ...string) error {
	c.delCalls++
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *stubCache) DonorProfileKey(profileID string) string {
	return "cw:donor_profile:" + profileID
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "donors-test", Output: io.Discard})
}

func newTestService(t *testing.T, store *stubStore, cache *stubCache) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:  store,
		Cache:  cache,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func donorActor() profiles.Actor {
	return profiles.Actor{ProfileID: uuid.New(), Role: "donor"}
}

func TestResolveRejectsNonDonorActors(t *testing.T) {
	svc := newTestService(t, newStubStore(), newStubCache())
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, profiles.Actor{}); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for empty actor, got %v", err)
	}

	teacher := profiles.Actor{ProfileID: uuid.New(), Role: "teacher"}
	if _, err := svc.Resolve(ctx, teacher); !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for teacher actor, got %v", err)
	}
}

func TestResolveCacheHitSkipsStore(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	cached := DonorProfileDTO{
		ID:                   uuid.New(),
		ProfileID:            actor.ProfileID,
		ReceivesUpdatesEmail: true,
	}
	payload, _ := json.Marshal(cached)
	cache.data[cache.DonorProfileKey(actor.ProfileID.String())] = string(payload)

	dto, err := svc.Resolve(context.Background(), actor)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dto.ID != cached.ID {
		t.Fatalf("expected cached profile, got %s", dto.ID)
	}
	if store.findCalls != 0 || store.createCalls != 0 {
		t.Fatalf("store must not be touched on a valid cache hit")
	}
}

func TestResolveEvictsCorruptCacheEntries(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	key := cache.DonorProfileKey(actor.ProfileID.String())
	cache.data[key] = "{not json"

	dto, err := svc.Resolve(context.Background(), actor)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dto.ProfileID != actor.ProfileID {
		t.Fatalf("expected provisioned profile for actor")
	}
	if cache.delCalls == 0 {
		t.Fatalf("corrupt entry should have been evicted")
	}
	if store.createCalls != 1 {
		t.Fatalf("expected store provisioning after eviction, create calls=%d", store.createCalls)
	}
}

func TestResolveRejectsForeignCacheEntry(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	foreign := DonorProfileDTO{ID: uuid.New(), ProfileID: uuid.New()}
	payload, _ := json.Marshal(foreign)
	cache.data[cache.DonorProfileKey(actor.ProfileID.String())] = string(payload)

	dto, err := svc.Resolve(context.Background(), actor)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dto.ProfileID != actor.ProfileID {
		t.Fatalf("foreign cache entry must never be returned")
	}
}

func TestResolveCreatesOnFirstTouch(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	dto, err := svc.Resolve(context.Background(), actor)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dto.ProfileID != actor.ProfileID {
		t.Fatalf("expected profile for actor, got %s", dto.ProfileID)
	}
	if !dto.DonationTotal.IsZero() || dto.ProjectsSupported != 0 {
		t.Fatalf("new donor profile must start with zeroed stats")
	}
	if cache.setCalls != 1 {
		t.Fatalf("expected cache population after creation")
	}

	// Second resolve comes from cache without another store roundtrip.
	findsBefore := store.findCalls
	if _, err := svc.Resolve(context.Background(), actor); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if store.findCalls != findsBefore {
		t.Fatalf("expected cache hit on second resolve")
	}
}

func TestResolveRaceLoserRefetchesWinner(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	winner := &models.DonorProfile{ID: uuid.New(), ProfileID: actor.ProfileID}
	store.createErr = errors.New(`duplicate key value violates unique constraint "donor_profiles_profile_key"`)

	// Simulate the winner committing between our miss and our insert.
	store.findCallsHook = func(calls int) {
		if calls == 2 {
			store.donorsByProfile[actor.ProfileID] = winner
		}
	}

	dto, err := svc.Resolve(context.Background(), actor)
	if err != nil {
		t.Fatalf("race loser must not surface an error, got %v", err)
	}
	if dto.ID != winner.ID {
		t.Fatalf("expected winner row, got %s", dto.ID)
	}
}

func TestResolveSurfacesProfileUnavailable(t *testing.T) {
	store := newStubStore()
	store.createErr = errors.New("connection reset by peer")
	svc := newTestService(t, store, newStubCache())

	_, err := svc.Resolve(context.Background(), donorActor())
	if !pkgerrors.HasCode(err, pkgerrors.CodeProfileUnavailable) {
		t.Fatalf("expected profile unavailable, got %v", err)
	}
}

func TestResolveWrapsStoreOutage(t *testing.T) {
	store := newStubStore()
	store.findErr = errors.New("dial tcp: connection refused")
	svc := newTestService(t, store, newStubCache())

	_, err := svc.Resolve(context.Background(), donorActor())
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestReconcileInvalidatesCacheAndRereads(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	authoritative := &models.DonorProfile{ID: uuid.New(), ProfileID: actor.ProfileID, ProjectsSupported: 3}
	store.donorsByProfile[actor.ProfileID] = authoritative

	stale := DonorProfileDTO{ID: uuid.New(), ProfileID: actor.ProfileID}
	payload, _ := json.Marshal(stale)
	cache.data[cache.DonorProfileKey(actor.ProfileID.String())] = string(payload)

	dto, err := svc.Reconcile(context.Background(), actor)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if dto.ID != authoritative.ID {
		t.Fatalf("reconcile must return the authoritative row")
	}
	if cache.delCalls == 0 {
		t.Fatalf("reconcile must invalidate the cached entry")
	}

	var recached DonorProfileDTO
	raw := cache.data[cache.DonorProfileKey(actor.ProfileID.String())]
	if err := json.Unmarshal([]byte(raw), &recached); err != nil {
		t.Fatalf("expected repopulated cache entry: %v", err)
	}
	if recached.ID != authoritative.ID {
		t.Fatalf("cache must hold the authoritative row after reconcile")
	}
}

func TestUpdatePreferencesPersistsAndRecaches(t *testing.T) {
	store := newStubStore()
	cache := newStubCache()
	svc := newTestService(t, store, cache)
	actor := donorActor()

	anonymous := true
	dto, err := svc.UpdatePreferences(context.Background(), actor, UpdatePreferencesRequest{
		IsAnonymousByDefault: &anonymous,
	})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if !dto.IsAnonymousByDefault {
		t.Fatalf("preference change not applied")
	}
	if store.prefCalls != 1 {
		t.Fatalf("expected one preference write, got %d", store.prefCalls)
	}

	var recached DonorProfileDTO
	raw := cache.data[cache.DonorProfileKey(actor.ProfileID.String())]
	if err := json.Unmarshal([]byte(raw), &recached); err != nil {
		t.Fatalf("expected refreshed cache entry: %v", err)
	}
	if !recached.IsAnonymousByDefault {
		t.Fatalf("cache must reflect the updated preferences")
	}
}

func TestUpdatePreferencesNoopReturnsCurrent(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, newStubCache())

	dto, err := svc.UpdatePreferences(context.Background(), donorActor(), UpdatePreferencesRequest{})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if dto == nil {
		t.Fatalf("expected resolved profile")
	}
	if store.prefCalls != 0 {
		t.Fatalf("no-op update must not hit the store")
	}
}
