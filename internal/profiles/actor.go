package profiles

import (
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/google/uuid"
)

// Actor identifies the authenticated account performing an operation.
// Services receive it explicitly so authorization is re-checked against
// the request, never against ambient state.
type Actor struct {
	ProfileID uuid.UUID
	Role      enums.Role
}

// Valid reports whether the actor carries a usable identity.
func (a Actor) Valid() bool {
	return a.ProfileID != uuid.Nil && a.Role.IsValid()
}

// IsTeacher reports whether the actor holds the teacher role.
func (a Actor) IsTeacher() bool {
	return a.Role == enums.RoleTeacher
}

// IsDonor reports whether the actor holds the donor role.
func (a Actor) IsDonor() bool {
	return a.Role == enums.RoleDonor
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.RoleAdmin
}
