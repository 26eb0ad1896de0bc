package categories

import (
	"context"
	"time"

	"github.com/classwish/classwish-backend/internal/repo"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryDTO is the transport shape for a taxonomy tag.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository reads the admin-managed category taxonomy.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns every category ordered by name.
func (r *Repository) List(ctx context.Context) ([]CategoryDTO, error) {
	var rows []models.Category
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

// ListForProject returns the categories attached to a project.
func (r *Repository) ListForProject(ctx context.Context, projectID uuid.UUID) ([]CategoryDTO, error) {
	var rows []models.Category
	err := r.DB(ctx).
		Table("categories c").
		Joins("JOIN project_categories pc ON pc.category_id = c.id").
		Where("pc.project_id = ?", projectID).
		Order("c.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []models.Category) []CategoryDTO {
	items := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, CategoryDTO{
			ID:        row.ID,
			Name:      row.Name,
			Slug:      row.Slug,
			CreatedAt: row.CreatedAt,
		})
	}
	return items
}
