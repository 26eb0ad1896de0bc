package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classwish/classwish-backend/internal/profiles"
	pkgAuth "github.com/classwish/classwish-backend/pkg/auth"
	"github.com/classwish/classwish-backend/pkg/auth/session"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	profiles profileRepository
	session  sessionManager
	jwtCfg   config.JWTConfig
}

type profileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindTeacherByProfile(ctx context.Context, profileID uuid.UUID) (*models.TeacherProfile, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	ProfileRepo    profileRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		profiles: params.ProfileRepo,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	profile, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, profile)
}

func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	profile, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if profile.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return s.issueTokens(ctx, profile)
}

func (s *service) issueTokens(ctx context.Context, profile *models.Profile) (*LoginResponse, error) {
	if !profile.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now, err := s.recordLogin(ctx, profile)
	if err != nil {
		return nil, err
	}

	var teacher *profiles.TeacherProfileDTO
	if profile.Role == enums.RoleTeacher {
		record, err := s.profiles.FindTeacherByProfile(ctx, profile.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup teacher profile")
		}
		teacher = profiles.TeacherFromModel(record)
	}

	accessID := session.NewAccessID()
	tokenPayload := pkgAuth.AccessTokenPayload{
		ProfileID: profile.ID,
		Role:      profile.Role,
		JTI:       accessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profiles.FromModel(profile),
		Teacher:      teacher,
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	profile, err := s.profiles.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}

	valid, err := security.VerifyPassword(password, profile.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return profile, nil
}

func (s *service) recordLogin(ctx context.Context, profile *models.Profile) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.profiles.UpdateLastLogin(ctx, profile.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	profile.LastLoginAt = &now
	return now, nil
}
