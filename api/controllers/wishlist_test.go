package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/classwish/classwish-backend/api/middleware"
	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/internal/wishlist"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
)

type stubWishlistService struct {
	toggleResult wishlist.ToggleResultDTO
	toggleErr    error
	toggledWith  uuid.UUID
	actorSeen    profiles.Actor
}

func (s *stubWishlistService) Toggle(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (wishlist.ToggleResultDTO, error) {
	s.actorSeen = actor
	s.toggledWith = projectID
	return s.toggleResult, s.toggleErr
}

func (s *stubWishlistService) List(ctx context.Context, actor profiles.Actor, cursor string, limit int) (wishlist.WishlistPageDTO, error) {
	return wishlist.WishlistPageDTO{Items: []wishlist.WishlistItemDTO{}}, nil
}

func (s *stubWishlistService) ListIDs(ctx context.Context, actor profiles.Actor) (wishlist.WishlistIDsDTO, error) {
	return wishlist.WishlistIDsDTO{ProjectIDs: []uuid.UUID{}}, nil
}

func donorRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	actor := profiles.Actor{ProfileID: uuid.New(), Role: enums.RoleDonor}
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestWishlistTogglePassesProjectID(t *testing.T) {
	svc := &stubWishlistService{toggleResult: wishlist.ToggleResultDTO{InWishlist: true}}
	handler := WishlistToggle(svc, nil)

	projectID := uuid.New()
	payload, _ := json.Marshal(map[string]string{"project_id": projectID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, donorRequest(t, http.MethodPost, "/api/v1/wishlist/toggle", payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.toggledWith != projectID {
		t.Fatalf("expected project %s got %s", projectID, svc.toggledWith)
	}
	if svc.actorSeen.Role != enums.RoleDonor {
		t.Fatalf("expected donor actor, got %s", svc.actorSeen.Role)
	}

	var envelope struct {
		Data wishlist.ToggleResultDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.InWishlist {
		t.Fatal("expected in_wishlist true")
	}
}

func TestWishlistToggleRejectsMalformedID(t *testing.T) {
	svc := &stubWishlistService{}
	handler := WishlistToggle(svc, nil)

	payload := []byte(`{"project_id":"not-a-uuid"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, donorRequest(t, http.MethodPost, "/api/v1/wishlist/toggle", payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestWishlistToggleSurfacesProfileUnavailable(t *testing.T) {
	svc := &stubWishlistService{
		toggleErr: pkgerrors.New(pkgerrors.CodeProfileUnavailable, "donor profile provisioning failed"),
	}
	handler := WishlistToggle(svc, nil)

	payload, _ := json.Marshal(map[string]string{"project_id": uuid.NewString()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, donorRequest(t, http.MethodPost, "/api/v1/wishlist/toggle", payload))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeProfileUnavailable) {
		t.Fatalf("expected DONOR_PROFILE_UNAVAILABLE code, got %s", envelope.Error.Code)
	}
}
