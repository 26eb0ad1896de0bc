package projects

import (
	"time"

	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectDTO is the transport shape for a funding project.
type ProjectDTO struct {
	ID            uuid.UUID           `json:"id"`
	TeacherID     uuid.UUID           `json:"teacher_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	StudentImpact string              `json:"student_impact"`
	FundingGoal   decimal.Decimal     `json:"funding_goal"`
	CurrentAmount decimal.Decimal     `json:"current_amount"`
	DonorCount    int                 `json:"donor_count"`
	Status        enums.ProjectStatus `json:"status"`
	ReviewNote    *string             `json:"review_note,omitempty"`
	MainImageURL  *string             `json:"main_image_url,omitempty"`
	EndDate       *time.Time          `json:"end_date,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CreateProjectRequest captures the fields a teacher supplies for a new draft.
type CreateProjectRequest struct {
	Title         string          `json:"title" validate:"required,max=160"`
	Description   string          `json:"description" validate:"required"`
	StudentImpact string          `json:"student_impact" validate:"required"`
	FundingGoal   decimal.Decimal `json:"funding_goal" validate:"required"`
	MainImageURL  *string         `json:"main_image_url,omitempty" validate:"omitempty,url"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
}

// UpdateProjectRequest carries the teacher-editable fields. Nil means unchanged.
type UpdateProjectRequest struct {
	Title         *string          `json:"title,omitempty" validate:"omitempty,max=160"`
	Description   *string          `json:"description,omitempty"`
	StudentImpact *string          `json:"student_impact,omitempty"`
	FundingGoal   *decimal.Decimal `json:"funding_goal,omitempty"`
	MainImageURL  *string          `json:"main_image_url,omitempty" validate:"omitempty,url"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
}

// ProjectPageDTO returns a cursor-paginated project listing.
type ProjectPageDTO struct {
	Items      []ProjectDTO `json:"items"`
	Total      int64        `json:"total"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel converts a project row to its transport shape.
func FromModel(p *models.Project) *ProjectDTO {
	if p == nil {
		return nil
	}
	return &ProjectDTO{
		ID:            p.ID,
		TeacherID:     p.TeacherID,
		Title:         p.Title,
		Description:   p.Description,
		StudentImpact: p.StudentImpact,
		FundingGoal:   p.FundingGoal,
		CurrentAmount: p.CurrentAmount,
		DonorCount:    p.DonorCount,
		Status:        p.Status,
		ReviewNote:    p.ReviewNote,
		MainImageURL:  p.MainImageURL,
		EndDate:       p.EndDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
