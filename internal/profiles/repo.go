package profiles

import (
	"context"
	"time"

	"github.com/classwish/classwish-backend/internal/repo"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the thin accessor over profile rows and their role extensions.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	if err := r.DB(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a profile by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.DB(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail retrieves the profile matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.DB(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateLastLogin refreshes the profile's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// CreateTeacher persists the school details captured at teacher sign-up.
func (r *Repository) CreateTeacher(ctx context.Context, dto CreateTeacherProfileDTO) (*models.TeacherProfile, error) {
	teacher := dto.ToModel()
	if err := r.DB(ctx).Create(teacher).Error; err != nil {
		return nil, err
	}
	return teacher, nil
}

// FindTeacherByProfile loads the teacher extension row for a profile.
func (r *Repository) FindTeacherByProfile(ctx context.Context, profileID uuid.UUID) (*models.TeacherProfile, error) {
	var teacher models.TeacherProfile
	if err := r.DB(ctx).Where("profile_id = ?", profileID).First(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindTeacherByID loads a teacher extension row by its own id.
func (r *Repository) FindTeacherByID(ctx context.Context, id uuid.UUID) (*models.TeacherProfile, error) {
	var teacher models.TeacherProfile
	if err := r.DB(ctx).First(&teacher, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

// UpdateTeacherStatus sets the teacher's account status.
func (r *Repository) UpdateTeacherStatus(ctx context.Context, teacherID uuid.UUID, status enums.TeacherAccountStatus) error {
	return r.DB(ctx).
		Model(&models.TeacherProfile{}).
		Where("id = ?", teacherID).
		UpdateColumn("account_status", status).Error
}

// FindDonorByProfile loads the donor extension row for a profile.
func (r *Repository) FindDonorByProfile(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error) {
	var donor models.DonorProfile
	if err := r.DB(ctx).Where("profile_id = ?", profileID).First(&donor).Error; err != nil {
		return nil, err
	}
	return &donor, nil
}

// CreateDonor inserts a donor row with zeroed stats. Concurrent callers
// race on the profile_id unique constraint; losers surface the driver's
// unique-violation error and are expected to re-fetch.
func (r *Repository) CreateDonor(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error) {
	if profileID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}
	donor := &models.DonorProfile{
		ProfileID:            profileID,
		ReceivesUpdatesEmail: true,
	}
	if err := r.DB(ctx).Create(donor).Error; err != nil {
		return nil, err
	}
	return donor, nil
}

// DonorPreferencesUpdate carries the mutable donor preference fields.
type DonorPreferencesUpdate struct {
	IsAnonymousByDefault *bool
	ReceivesUpdatesEmail *bool
}

// UpdateDonorPreferences applies the provided preference changes to the
// donor row and returns the updated model.
func (r *Repository) UpdateDonorPreferences(ctx context.Context, donorID uuid.UUID, update DonorPreferencesUpdate) (*models.DonorProfile, error) {
	columns := map[string]any{}
	if update.IsAnonymousByDefault != nil {
		columns["is_anonymous_by_default"] = *update.IsAnonymousByDefault
	}
	if update.ReceivesUpdatesEmail != nil {
		columns["receives_updates_email"] = *update.ReceivesUpdatesEmail
	}
	if len(columns) > 0 {
		if err := r.DB(ctx).
			Model(&models.DonorProfile{}).
			Where("id = ?", donorID).
			Updates(columns).Error; err != nil {
			return nil, err
		}
	}
	var donor models.DonorProfile
	if err := r.DB(ctx).First(&donor, "id = ?", donorID).Error; err != nil {
		return nil, err
	}
	return &donor, nil
}
