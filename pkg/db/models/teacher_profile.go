package models

import (
	"time"

	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
)

// TeacherProfile extends a teacher-role profile with school details.
// AccountStatus gates project creation.
type TeacherProfile struct {
	ID               uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID        uuid.UUID                  `gorm:"column:profile_id;type:uuid;not null;uniqueIndex:teacher_profiles_profile_key"`
	SchoolName       string                     `gorm:"column:school_name;not null"`
	SchoolAddress    string                     `gorm:"column:school_address;not null"`
	SchoolCity       string                     `gorm:"column:school_city;not null"`
	SchoolState      string                     `gorm:"column:school_state;not null"`
	SchoolPostalCode string                     `gorm:"column:school_postal_code;not null"`
	PositionTitle    string                     `gorm:"column:position_title;not null"`
	AccountStatus    enums.TeacherAccountStatus `gorm:"column:account_status;type:teacher_account_status;not null;default:'pending'"`
	CreatedAt        time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
