package models

import (
	"time"

	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project is a classroom funding request owned by one teacher profile.
// Status only changes through the lifecycle service's conditional update.
type Project struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TeacherID     uuid.UUID           `gorm:"column:teacher_id;type:uuid;not null;index:projects_teacher_idx"`
	Title         string              `gorm:"column:title;not null"`
	Description   string              `gorm:"column:description;not null"`
	StudentImpact string              `gorm:"column:student_impact;not null"`
	FundingGoal   decimal.Decimal     `gorm:"column:funding_goal;type:numeric(12,2);not null"`
	CurrentAmount decimal.Decimal     `gorm:"column:current_amount;type:numeric(12,2);not null;default:0"`
	DonorCount    int                 `gorm:"column:donor_count;not null;default:0"`
	Status        enums.ProjectStatus `gorm:"column:status;type:project_status;not null;default:'draft';index:projects_status_idx"`
	ReviewNote    *string             `gorm:"column:review_note"`
	MainImageURL  *string             `gorm:"column:main_image_url"`
	EndDate       *time.Time          `gorm:"column:end_date"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
