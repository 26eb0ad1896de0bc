package enums

import "fmt"

// ProjectStatus tracks the review lifecycle of a funding project.
// "approved" is the canonical publicly-listable state; the legacy
// synonym "active" is accepted at parse boundaries only.
type ProjectStatus string

const (
	ProjectStatusDraft         ProjectStatus = "draft"
	ProjectStatusPendingReview ProjectStatus = "pending_review"
	ProjectStatusApproved      ProjectStatus = "approved"
	ProjectStatusNeedsRevision ProjectStatus = "needs_revision"
	ProjectStatusDenied        ProjectStatus = "denied"
	ProjectStatusFunded        ProjectStatus = "funded"
	ProjectStatusCompleted     ProjectStatus = "completed"
)

// legacyProjectStatusSynonyms maps historical spellings to canonical values.
var legacyProjectStatusSynonyms = map[string]ProjectStatus{
	"active": ProjectStatusApproved,
}

var validProjectStatuses = []ProjectStatus{
	ProjectStatusDraft,
	ProjectStatusPendingReview,
	ProjectStatusApproved,
	ProjectStatusNeedsRevision,
	ProjectStatusDenied,
	ProjectStatusFunded,
	ProjectStatusCompleted,
}

// String implements fmt.Stringer.
func (s ProjectStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known canonical ProjectStatus.
func (s ProjectStatus) IsValid() bool {
	for _, candidate := range validProjectStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further automatic transition.
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusDenied || s == ProjectStatusCompleted
}

// ParseProjectStatus converts raw input into a ProjectStatus, folding
// legacy synonyms onto their canonical value.
func ParseProjectStatus(value string) (ProjectStatus, error) {
	if canonical, ok := legacyProjectStatusSynonyms[value]; ok {
		return canonical, nil
	}
	for _, candidate := range validProjectStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid project status %q", value)
}
