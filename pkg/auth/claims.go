package auth

import (
	"github.com/classwish/classwish-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ProfileID uuid.UUID
	Role      enums.Role
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	ProfileID uuid.UUID  `json:"profile_id"`
	Role      enums.Role `json:"role"`
	jwt.RegisteredClaims
}
