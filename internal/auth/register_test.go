package auth

import (
	"context"
	"testing"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterRepo struct {
	byEmail        map[string]*models.Profile
	createdProfile *models.Profile
	createdTeacher *models.TeacherProfile
	createdDonor   *models.DonorProfile
}

func newStubRegisterRepo() *stubRegisterRepo {
	return &stubRegisterRepo{byEmail: map[string]*models.Profile{}}
}

func (s *stubRegisterRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if profile, ok := s.byEmail[email]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterRepo) Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	profile.ID = uuid.New()
	s.byEmail[dto.Email] = profile
	s.createdProfile = profile
	return profile, nil
}

func (s *stubRegisterRepo) CreateTeacher(ctx context.Context, dto profiles.CreateTeacherProfileDTO) (*models.TeacherProfile, error) {
	teacher := dto.ToModel()
	teacher.ID = uuid.New()
	s.createdTeacher = teacher
	return teacher, nil
}

func (s *stubRegisterRepo) CreateDonor(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error) {
	donor := &models.DonorProfile{ID: uuid.New(), ProfileID: profileID, ReceivesUpdatesEmail: true}
	s.createdDonor = donor
	return donor, nil
}

type registerTestSetup struct {
	service RegisterService
	repo    *stubRegisterRepo
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	repo := newStubRegisterRepo()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return repo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, repo: repo}
}

func sampleSchool() *SchoolDetails {
	return &SchoolDetails{
		Name:          "Lincoln Elementary",
		Address:       "42 Maple Street",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62704",
		PositionTitle: "3rd Grade Teacher",
	}
}

func TestRegisterTeacherCreatesPendingAccount(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.Register(context.Background(), RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Email:     "Jamie.Rivera@Example.com",
		Password:  "correct-horse",
		Role:      enums.RoleTeacher,
		School:    sampleSchool(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	profile := setup.repo.createdProfile
	if profile == nil || profile.Email != "jamie.rivera@example.com" {
		t.Fatalf("expected normalized email, got %+v", profile)
	}
	if profile.Role != enums.RoleTeacher {
		t.Fatalf("expected teacher role, got %s", profile.Role)
	}
	teacher := setup.repo.createdTeacher
	if teacher == nil || teacher.ProfileID != profile.ID {
		t.Fatalf("expected linked teacher profile, got %+v", teacher)
	}
	if teacher.AccountStatus != enums.TeacherAccountStatusPending {
		t.Fatalf("new teacher accounts start pending, got %s", teacher.AccountStatus)
	}
	if setup.repo.createdDonor != nil {
		t.Fatal("teacher sign-up must not create a donor record")
	}
}

func TestRegisterDonorCreatesDonorProfile(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.Register(context.Background(), RegisterRequest{
		FirstName: "Morgan",
		LastName:  "Lee",
		Email:     "morgan@example.com",
		Password:  "correct-horse",
		Role:      enums.RoleDonor,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	donor := setup.repo.createdDonor
	if donor == nil || donor.ProfileID != setup.repo.createdProfile.ID {
		t.Fatalf("expected linked donor profile, got %+v", donor)
	}
	if setup.repo.createdTeacher != nil {
		t.Fatal("donor sign-up must not create a teacher record")
	}
}

func TestRegisterTeacherRequiresSchool(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.Register(context.Background(), RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Email:     "jamie@example.com",
		Password:  "correct-horse",
		Role:      enums.RoleTeacher,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	setup := newRegisterTestSetup(t)

	err := setup.service.Register(context.Background(), RegisterRequest{
		FirstName: "Sam",
		LastName:  "Quinn",
		Email:     "sam@example.com",
		Password:  "correct-horse",
		Role:      enums.RoleAdmin,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	req := RegisterRequest{
		FirstName: "Morgan",
		LastName:  "Lee",
		Email:     "morgan@example.com",
		Password:  "correct-horse",
		Role:      enums.RoleDonor,
	}

	if err := setup.service.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := setup.service.Register(context.Background(), req)
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
