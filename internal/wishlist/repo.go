package wishlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/classwish/classwish-backend/internal/projects"
	"github.com/classwish/classwish-backend/internal/repo"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOwnershipMismatch is returned when the supplied donor profile id does
// not belong to the acting account. Callers reconcile and retry once.
var ErrOwnershipMismatch = errors.New("donor profile does not belong to the acting account")

// Repository encapsulates wishlist persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// VerifyOwnership confirms the donor row belongs to the profile. A mismatch
// returns ErrOwnershipMismatch so the coordinator can distinguish it from
// infrastructure failures.
func (r *Repository) VerifyOwnership(ctx context.Context, donorProfileID, profileID uuid.UUID) error {
	var count int64
	if err := r.DB(ctx).
		Model(&models.DonorProfile{}).
		Where("id = ? AND profile_id = ?", donorProfileID, profileID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrOwnershipMismatch
	}
	return nil
}

// Exists reports whether the donor already wishes for the project.
func (r *Repository) Exists(ctx context.Context, donorProfileID, projectID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.WishlistEntry{}).
		Where("donor_profile_id = ? AND project_id = ?", donorProfileID, projectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a wishlist entry and ignores duplicates, so retries after a
// caller-visible timeout cannot double-apply.
func (r *Repository) Add(ctx context.Context, donorProfileID, projectID uuid.UUID) error {
	if donorProfileID == uuid.Nil || projectID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.DB(ctx).
		Exec(`INSERT INTO wishlist_entries (id, donor_profile_id, project_id) VALUES (?, ?, ?) ON CONFLICT (donor_profile_id, project_id) DO NOTHING`,
			uuid.New(), donorProfileID, projectID).
		Error
}

// Remove deletes the entry if it exists.
func (r *Repository) Remove(ctx context.Context, donorProfileID, projectID uuid.UUID) error {
	return r.DB(ctx).
		Where("donor_profile_id = ? AND project_id = ?", donorProfileID, projectID).
		Delete(&models.WishlistEntry{}).
		Error
}

type wishlistProjectRecord struct {
	WishlistID        uuid.UUID `gorm:"column:wishlist_id"`
	WishlistCreatedAt time.Time `gorm:"column:wishlist_created_at"`
	models.Project    `gorm:"embedded"`
}

// ListEntries returns a cursor-paginated page of wishlisted projects.
func (r *Repository) ListEntries(ctx context.Context, donorProfileID uuid.UUID, cursor string, limit int) (WishlistPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return WishlistPageDTO{}, err
	}

	query := r.DB(ctx).
		Table("wishlist_entries we").
		Select("we.id AS wishlist_id, we.created_at AS wishlist_created_at, p.*").
		Joins("JOIN projects p ON p.id = we.project_id").
		Where("we.donor_profile_id = ?", donorProfileID)

	if decodedCursor != nil {
		query = query.Where("(we.created_at < ?) OR (we.created_at = ? AND we.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []wishlistProjectRecord
	if err := query.
		Order("we.created_at DESC").
		Order("we.id DESC").
		Limit(limitWithBuffer).
		Scan(&records).Error; err != nil {
		return WishlistPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.WishlistCreatedAt,
			ID:        last.WishlistID,
		})
	}

	total, err := r.countEntries(ctx, donorProfileID)
	if err != nil {
		return WishlistPageDTO{}, err
	}

	items := make([]WishlistItemDTO, 0, len(resultRows))
	for i := range resultRows {
		project := resultRows[i].Project
		items = append(items, WishlistItemDTO{
			Project:   *projects.FromModel(&project),
			CreatedAt: resultRows[i].WishlistCreatedAt,
		})
	}

	return WishlistPageDTO{
		Items:      items,
		Total:      total,
		NextCursor: nextCursor,
	}, nil
}

// ListProjectIDs returns every project id the donor has wishlisted.
func (r *Repository) ListProjectIDs(ctx context.Context, donorProfileID uuid.UUID) (WishlistIDsDTO, error) {
	var ids []uuid.UUID
	if err := r.DB(ctx).
		Model(&models.WishlistEntry{}).
		Where("donor_profile_id = ?", donorProfileID).
		Order("created_at DESC").
		Pluck("project_id", &ids).Error; err != nil {
		return WishlistIDsDTO{}, err
	}
	return WishlistIDsDTO{
		ProjectIDs: ids,
		Total:      int64(len(ids)),
	}, nil
}

func (r *Repository) countEntries(ctx context.Context, donorProfileID uuid.UUID) (int64, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.WishlistEntry{}).
		Where("donor_profile_id = ?", donorProfileID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
