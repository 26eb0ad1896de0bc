package wishlist

import (
	"time"

	"github.com/classwish/classwish-backend/internal/projects"
	"github.com/google/uuid"
)

// ToggleResultDTO reports the membership state after a toggle.
type ToggleResultDTO struct {
	InWishlist bool `json:"in_wishlist"`
}

// WishlistItemDTO wraps the project summary included in a wishlist row.
type WishlistItemDTO struct {
	Project   projects.ProjectDTO `json:"project"`
	CreatedAt time.Time           `json:"created_at"`
}

// WishlistPageDTO returns a cursor-paginated wishlist view.
type WishlistPageDTO struct {
	Items      []WishlistItemDTO `json:"items"`
	Total      int64             `json:"total"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// WishlistIDsDTO is a lightweight projection containing only project IDs.
type WishlistIDsDTO struct {
	ProjectIDs []uuid.UUID `json:"project_ids"`
	Total      int64       `json:"total"`
}
