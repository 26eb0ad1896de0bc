package enums

import "fmt"

// Role represents the application-level role carried on a profile.
// A profile's role is fixed at sign-up; there is no migration path.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleDonor   Role = "donor"
	RoleAdmin   Role = "admin"
)

var validRoles = []Role{
	RoleTeacher,
	RoleDonor,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
