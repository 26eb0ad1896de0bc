package projects

import (
	"context"
	"errors"
	"strings"

	"github.com/classwish/classwish-backend/internal/repo"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/classwish/classwish-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates project persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a project repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new draft project.
func (r *Repository) Create(ctx context.Context, project *models.Project) error {
	if project == nil {
		return gorm.ErrInvalidValue
	}
	return r.DB(ctx).Create(project).Error
}

// FindByID loads a project by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.DB(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Exists returns gorm.ErrRecordNotFound when no project has the id.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByTeacher returns all projects owned by a teacher, newest first.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Project, error) {
	var rows []models.Project
	if err := r.DB(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStatus returns a cursor-paginated page of projects in the given status.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ProjectStatus, cursor string, limit int) (ProjectPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return ProjectPageDTO{}, err
	}

	query := r.DB(ctx).
		Model(&models.Project{}).
		Where("status = ?", status)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Project
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error; err != nil {
		return ProjectPageDTO{}, err
	}

	resultRows := rows
	nextCursor := ""
	if len(rows) > normalizedLimit {
		resultRows = rows[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	var total int64
	if err := r.DB(ctx).
		Model(&models.Project{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return ProjectPageDTO{}, err
	}

	items := make([]ProjectDTO, 0, len(resultRows))
	for i := range resultRows {
		items = append(items, *FromModel(&resultRows[i]))
	}

	return ProjectPageDTO{
		Items:      items,
		Total:      total,
		NextCursor: nextCursor,
	}, nil
}

// UpdateDetails saves teacher-editable fields, conditioned on the project
// still being in an editable status. Zero rows affected means the status
// moved underneath the caller.
func (r *Repository) UpdateDetails(ctx context.Context, projectID uuid.UUID, columns map[string]any, editable []enums.ProjectStatus) (int64, error) {
	if len(columns) == 0 {
		return 0, nil
	}
	result := r.DB(ctx).
		Model(&models.Project{}).
		Where("id = ? AND status IN ?", projectID, editable).
		Updates(columns)
	return result.RowsAffected, result.Error
}

// TransitionStatus performs the conditional status update. The WHERE clause
// on the current status is the race arbiter: zero rows affected means the
// precondition no longer holds and the caller must not retry blindly.
func (r *Repository) TransitionStatus(ctx context.Context, projectID uuid.UUID, from, to enums.ProjectStatus, note *string) (int64, error) {
	columns := map[string]any{"status": to}
	if note != nil {
		columns["review_note"] = *note
	}
	if to == enums.ProjectStatusPendingReview {
		// A resubmission invalidates the previous review's feedback.
		columns["review_note"] = nil
	}
	result := r.DB(ctx).
		Model(&models.Project{}).
		Where("id = ? AND status = ?", projectID, from).
		Updates(columns)
	return result.RowsAffected, result.Error
}

// IsNotFound reports whether the error is the store's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
