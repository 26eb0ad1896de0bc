package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonorProfile extends a donor-role profile with donation stats and
// mail preferences. The unique constraint on profile_id is the arbiter
// for concurrent get-or-create provisioning.
type DonorProfile struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID            uuid.UUID       `gorm:"column:profile_id;type:uuid;not null;uniqueIndex:donor_profiles_profile_key"`
	DonationTotal        decimal.Decimal `gorm:"column:donation_total;type:numeric(12,2);not null;default:0"`
	ProjectsSupported    int             `gorm:"column:projects_supported;not null;default:0"`
	IsAnonymousByDefault bool            `gorm:"column:is_anonymous_by_default;not null;default:false"`
	ReceivesUpdatesEmail bool            `gorm:"column:receives_updates_email;not null;default:true"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
