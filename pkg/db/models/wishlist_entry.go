package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry links a donor profile to a project it intends to support.
type WishlistEntry struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DonorProfileID uuid.UUID `gorm:"column:donor_profile_id;type:uuid;not null;index:wishlist_entries_donor_idx;uniqueIndex:wishlist_entries_donor_project_key"`
	ProjectID      uuid.UUID `gorm:"column:project_id;type:uuid;not null;index:wishlist_entries_project_idx;uniqueIndex:wishlist_entries_donor_project_key"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
