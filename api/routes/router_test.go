package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/classwish/classwish-backend/internal/auth"
	"github.com/classwish/classwish-backend/internal/categories"
	"github.com/classwish/classwish-backend/internal/donors"
	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/internal/projects"
	"github.com/classwish/classwish-backend/internal/wishlist"
	pkgAuth "github.com/classwish/classwish-backend/pkg/auth"
	"github.com/classwish/classwish-backend/pkg/auth/session"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/classwish/classwish-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return nil
}

type stubAdminRegisterService struct{}

func (stubAdminRegisterService) Register(ctx context.Context, req auth.AdminRegisterRequest) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubTeacherAdmin struct{}

func (stubTeacherAdmin) SetTeacherStatus(ctx context.Context, actor profiles.Actor, teacherID uuid.UUID, status enums.TeacherAccountStatus) (*profiles.TeacherProfileDTO, error) {
	return &profiles.TeacherProfileDTO{ID: teacherID, AccountStatus: status}, nil
}

type stubDonorService struct{}

func (stubDonorService) Resolve(ctx context.Context, actor profiles.Actor) (*donors.DonorProfileDTO, error) {
	return &donors.DonorProfileDTO{ID: uuid.New(), ProfileID: actor.ProfileID}, nil
}

func (stubDonorService) Reconcile(ctx context.Context, actor profiles.Actor) (*donors.DonorProfileDTO, error) {
	return &donors.DonorProfileDTO{ID: uuid.New(), ProfileID: actor.ProfileID}, nil
}

func (stubDonorService) UpdatePreferences(ctx context.Context, actor profiles.Actor, req donors.UpdatePreferencesRequest) (*donors.DonorProfileDTO, error) {
	return &donors.DonorProfileDTO{ID: uuid.New(), ProfileID: actor.ProfileID}, nil
}

type stubProjectService struct{}

func (stubProjectService) Create(ctx context.Context, actor profiles.Actor, req projects.CreateProjectRequest) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: uuid.New(), Status: enums.ProjectStatusDraft}, nil
}

func (stubProjectService) Update(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, req projects.UpdateProjectRequest) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID}, nil
}

func (stubProjectService) SubmitForReview(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusPendingReview}, nil
}

func (stubProjectService) Approve(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note *string) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusApproved}, nil
}

func (stubProjectService) RequestRevision(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note string) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusNeedsRevision}, nil
}

func (stubProjectService) Deny(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note string) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusDenied}, nil
}

func (stubProjectService) ResetToDraft(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, allowDeniedReset bool) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusDraft}, nil
}

func (stubProjectService) MarkFunded(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusFunded}, nil
}

func (stubProjectService) Complete(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusCompleted}, nil
}

func (stubProjectService) ListOwn(ctx context.Context, actor profiles.Actor) ([]projects.ProjectDTO, error) {
	return []projects.ProjectDTO{}, nil
}

func (stubProjectService) ListReviewQueue(ctx context.Context, actor profiles.Actor, cursor string, limit int) (projects.ProjectPageDTO, error) {
	return projects.ProjectPageDTO{Items: []projects.ProjectDTO{}}, nil
}

func (stubProjectService) ListApproved(ctx context.Context, cursor string, limit int) (projects.ProjectPageDTO, error) {
	return projects.ProjectPageDTO{Items: []projects.ProjectDTO{}}, nil
}

func (stubProjectService) GetPublic(ctx context.Context, projectID uuid.UUID) (*projects.ProjectDTO, error) {
	return &projects.ProjectDTO{ID: projectID, Status: enums.ProjectStatusApproved}, nil
}

type stubWishlistService struct{}

func (stubWishlistService) Toggle(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (wishlist.ToggleResultDTO, error) {
	return wishlist.ToggleResultDTO{InWishlist: true}, nil
}

func (stubWishlistService) List(ctx context.Context, actor profiles.Actor, cursor string, limit int) (wishlist.WishlistPageDTO, error) {
	return wishlist.WishlistPageDTO{Items: []wishlist.WishlistItemDTO{}}, nil
}

func (stubWishlistService) ListIDs(ctx context.Context, actor profiles.Actor) (wishlist.WishlistIDsDTO, error) {
	return wishlist.WishlistIDsDTO{ProjectIDs: []uuid.UUID{}}, nil
}

type stubCategoryLister struct{}

func (stubCategoryLister) List(ctx context.Context) ([]categories.CategoryDTO, error) {
	return []categories.CategoryDTO{}, nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testRouterConfig()
	return NewRouter(RouterParams{
		Config:          cfg,
		Logger:          logger.New(logger.Options{ServiceName: "router-test"}),
		DB:              stubPinger{},
		Redis:           nil,
		SessionManager:  stubSessionManager{},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		AdminRegister:   stubAdminRegisterService{},
		TeacherAdmin:    stubTeacherAdmin{},
		DonorService:    stubDonorService{},
		ProjectService:  stubProjectService{},
		WishlistService: stubWishlistService{},
		Categories:      stubCategoryLister{},
	})
}

func mintRouterToken(t *testing.T, role enums.Role) string {
	t.Helper()
	cfg := testRouterConfig().JWT
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		ProfileID: uuid.New(),
		Role:      role,
		JTI:       session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicRoutesNeedNoAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{"/health/live", "/api/public/ping", "/api/public/v1/projects/", "/api/public/v1/categories"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, rec.Code)
		}
	}
}

func TestPrivateRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestTeacherRoutesRejectDonorRole(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teacher/projects/", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.RoleDonor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestDonorWishlistToggle(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"project_id":"` + uuid.NewString() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/donor/wishlist/toggle", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.RoleDonor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminReviewQueueRequiresAdminRole(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/projects/review-queue", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.RoleTeacher))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/projects/review-queue", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestTeacherCreateProjectReturnsCreated(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"title":"Classroom Library","description":"Books for readers","student_impact":"Daily reading time","funding_goal":"500"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teacher/projects/", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.RoleTeacher))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}
