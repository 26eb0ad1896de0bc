package auth

import (
	"context"
	"testing"
	"time"

	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubProfileRepo struct {
	byEmail       map[string]*models.Profile
	teachers      map[uuid.UUID]*models.TeacherProfile
	lastLoginSeen *uuid.UUID
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		byEmail:  map[string]*models.Profile{},
		teachers: map[uuid.UUID]*models.TeacherProfile{},
	}
}

func (s *stubProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if profile, ok := s.byEmail[email]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginSeen = &id
	return nil
}

func (s *stubProfileRepo) FindTeacherByProfile(ctx context.Context, profileID uuid.UUID) (*models.TeacherProfile, error) {
	if teacher, ok := s.teachers[profileID]; ok {
		return teacher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	generated []string
	err       error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func seedProfile(t *testing.T, repo *stubProfileRepo, email, password string, role enums.Role) *models.Profile {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	profile := &models.Profile{
		ID:           uuid.New(),
		AuthID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Alex",
		LastName:     "Kim",
		Role:         role,
	}
	repo.byEmail[email] = profile
	return profile
}

func newLoginService(t *testing.T, repo *stubProfileRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ProfileRepo:    repo,
		SessionManager: sessions,
		JWTConfig:      config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 30},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	profile := seedProfile(t, repo, "donor@example.com", "open-sesame", enums.RoleDonor)
	svc := newLoginService(t, repo, sessions)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "Donor@Example.com", Password: "open-sesame"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if result.Profile == nil || result.Profile.ID != profile.ID {
		t.Fatalf("expected profile in response, got %+v", result.Profile)
	}
	if result.Teacher != nil {
		t.Fatal("donor login must not carry a teacher record")
	}
	if repo.lastLoginSeen == nil || *repo.lastLoginSeen != profile.ID {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginAttachesTeacherRecord(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	profile := seedProfile(t, repo, "teacher@example.com", "open-sesame", enums.RoleTeacher)
	repo.teachers[profile.ID] = &models.TeacherProfile{
		ID:            uuid.New(),
		ProfileID:     profile.ID,
		SchoolName:    "Lincoln Elementary",
		AccountStatus: enums.TeacherAccountStatusPending,
	}
	svc := newLoginService(t, repo, sessions)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "teacher@example.com", Password: "open-sesame"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Teacher == nil || result.Teacher.SchoolName != "Lincoln Elementary" {
		t.Fatalf("expected teacher record, got %+v", result.Teacher)
	}
	if result.Teacher.AccountStatus != enums.TeacherAccountStatusPending {
		t.Fatalf("expected pending status, got %s", result.Teacher.AccountStatus)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "donor@example.com", "open-sesame", enums.RoleDonor)
	svc := newLoginService(t, repo, sessions)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "donor@example.com", Password: "wrong"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(sessions.generated) != 0 {
		t.Fatal("no session may be created for a failed login")
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newLoginService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLoginRequiresAdminRole(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "teacher@example.com", "open-sesame", enums.RoleTeacher)
	seedProfile(t, repo, "admin@example.com", "open-sesame", enums.RoleAdmin)
	svc := newLoginService(t, repo, sessions)

	_, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "teacher@example.com", Password: "open-sesame"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for non-admin, got %v", err)
	}

	result, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "admin@example.com", Password: "open-sesame"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if result.Profile.Role != enums.RoleAdmin {
		t.Fatalf("expected admin profile, got %s", result.Profile.Role)
	}
}
