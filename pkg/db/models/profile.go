package models

import (
	"time"

	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
)

// Profile is the application-level user record linked 1:1 to an
// authentication account. Role is fixed at sign-up.
type Profile struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AuthID       string     `gorm:"column:auth_id;not null;uniqueIndex"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	Role         enums.Role `gorm:"column:role;type:profile_role;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
