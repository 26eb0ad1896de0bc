package profiles

import (
	"time"

	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProfileDTO is the transport shape that omits credentials.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        enums.Role `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateProfileDTO holds the data required to persist a new profile.
type CreateProfileDTO struct {
	AuthID       string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         enums.Role
}

// TeacherProfileDTO is the transport shape for a teacher's school record.
type TeacherProfileDTO struct {
	ID            uuid.UUID                  `json:"id"`
	ProfileID     uuid.UUID                  `json:"profile_id"`
	SchoolName    string                     `json:"school_name"`
	SchoolCity    string                     `json:"school_city"`
	SchoolState   string                     `json:"school_state"`
	PositionTitle string                     `json:"position_title"`
	AccountStatus enums.TeacherAccountStatus `json:"account_status"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// CreateTeacherProfileDTO holds the school details captured at sign-up.
type CreateTeacherProfileDTO struct {
	ProfileID        uuid.UUID
	SchoolName       string
	SchoolAddress    string
	SchoolCity       string
	SchoolState      string
	SchoolPostalCode string
	PositionTitle    string
}

// FromModel converts a profile row to its transport shape.
func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          p.ID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        p.Role,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// TeacherFromModel converts a teacher profile row to its transport shape.
func TeacherFromModel(tp *models.TeacherProfile) *TeacherProfileDTO {
	if tp == nil {
		return nil
	}
	return &TeacherProfileDTO{
		ID:            tp.ID,
		ProfileID:     tp.ProfileID,
		SchoolName:    tp.SchoolName,
		SchoolCity:    tp.SchoolCity,
		SchoolState:   tp.SchoolState,
		PositionTitle: tp.PositionTitle,
		AccountStatus: tp.AccountStatus,
		CreatedAt:     tp.CreatedAt,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		AuthID:       c.AuthID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Role:         c.Role,
	}
}

func (c CreateTeacherProfileDTO) ToModel() *models.TeacherProfile {
	return &models.TeacherProfile{
		ProfileID:        c.ProfileID,
		SchoolName:       c.SchoolName,
		SchoolAddress:    c.SchoolAddress,
		SchoolCity:       c.SchoolCity,
		SchoolState:      c.SchoolState,
		SchoolPostalCode: c.SchoolPostalCode,
		PositionTitle:    c.PositionTitle,
		AccountStatus:    enums.TeacherAccountStatusPending,
	}
}
