package auth

import (
	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SchoolDetails carries the school information collected from teachers
// at sign-up.
type SchoolDetails struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	PositionTitle string `json:"position_title" validate:"required"`
}

// RegisterRequest contains the payload required to onboard a new account.
// Teachers must include their school details; donors sign up with the
// base fields only.
type RegisterRequest struct {
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=8"`
	Role      enums.Role     `json:"role" validate:"required"`
	School    *SchoolDetails `json:"school,omitempty"`
}

// LoginResponse contains the token pair and profile produced by a
// successful login. Teacher is populated only for teacher accounts.
type LoginResponse struct {
	AccessToken  string                      `json:"access_token"`
	RefreshToken string                      `json:"refresh_token"`
	Profile      *profiles.ProfileDTO        `json:"profile"`
	Teacher      *profiles.TeacherProfileDTO `json:"teacher,omitempty"`
}
