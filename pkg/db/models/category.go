package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is an admin-managed taxonomy tag. Read-only for this service.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProjectCategory joins projects to categories.
type ProjectCategory struct {
	ProjectID  uuid.UUID `gorm:"column:project_id;type:uuid;not null;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null;primaryKey"`
}
