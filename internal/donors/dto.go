package donors

import (
	"time"

	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonorProfileDTO is the transport shape for a donor's marketplace profile.
type DonorProfileDTO struct {
	ID                   uuid.UUID       `json:"id"`
	ProfileID            uuid.UUID       `json:"profile_id"`
	DonationTotal        decimal.Decimal `json:"donation_total"`
	ProjectsSupported    int             `json:"projects_supported"`
	IsAnonymousByDefault bool            `json:"is_anonymous_by_default"`
	ReceivesUpdatesEmail bool            `json:"receives_updates_email"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// UpdatePreferencesRequest carries the donor-editable preference fields.
type UpdatePreferencesRequest struct {
	IsAnonymousByDefault *bool `json:"is_anonymous_by_default,omitempty"`
	ReceivesUpdatesEmail *bool `json:"receives_updates_email,omitempty"`
}

// FromModel converts a donor row to its transport shape.
func FromModel(d *models.DonorProfile) *DonorProfileDTO {
	if d == nil {
		return nil
	}
	return &DonorProfileDTO{
		ID:                   d.ID,
		ProfileID:            d.ProfileID,
		DonationTotal:        d.DonationTotal,
		ProjectsSupported:    d.ProjectsSupported,
		IsAnonymousByDefault: d.IsAnonymousByDefault,
		ReceivesUpdatesEmail: d.ReceivesUpdatesEmail,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

// structurallyValid reports whether a cached payload can be trusted as a
// profile hint. Anything failing these checks is discarded and re-read
// from the store.
func (d *DonorProfileDTO) structurallyValid() bool {
	if d == nil {
		return false
	}
	if d.ID == uuid.Nil || d.ProfileID == uuid.Nil {
		return false
	}
	if d.ProjectsSupported < 0 {
		return false
	}
	return !d.DonationTotal.IsNegative()
}
