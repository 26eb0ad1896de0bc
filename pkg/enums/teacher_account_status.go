package enums

import "fmt"

// TeacherAccountStatus gates whether a teacher may create projects.
type TeacherAccountStatus string

const (
	TeacherAccountStatusPending TeacherAccountStatus = "pending"
	TeacherAccountStatusActive  TeacherAccountStatus = "active"
)

var validTeacherAccountStatuses = []TeacherAccountStatus{
	TeacherAccountStatusPending,
	TeacherAccountStatusActive,
}

// String implements fmt.Stringer.
func (s TeacherAccountStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TeacherAccountStatus.
func (s TeacherAccountStatus) IsValid() bool {
	for _, candidate := range validTeacherAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTeacherAccountStatus converts raw input into a TeacherAccountStatus.
func ParseTeacherAccountStatus(value string) (TeacherAccountStatus, error) {
	for _, candidate := range validTeacherAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid teacher account status %q", value)
}
