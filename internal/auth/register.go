package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
	CreateTeacher(ctx context.Context, dto profiles.CreateTeacherProfileDTO) (*models.TeacherProfile, error)
	CreateDonor(ctx context.Context, profileID uuid.UUID) (*models.DonorProfile, error)
}

// RegisterServiceParams packages the dependencies for the sign-up flow.
// ProfileRepoFactory defaults to the gorm-backed repository when nil.
type RegisterServiceParams struct {
	TxRunner           txRunner
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
	PasswordConfig     config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) registerProfileRepository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	factory := params.ProfileRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		repoFactory: factory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	switch req.Role {
	case enums.RoleTeacher:
		if req.School == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "school details are required for teacher accounts")
		}
	case enums.RoleDonor:
	default:
		// Admin accounts are provisioned out of band, never via public sign-up.
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check profile email")
		}

		profile, err := repo.Create(ctx, profiles.CreateProfileDTO{
			AuthID:       uuid.NewString(),
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Role:         req.Role,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}

		switch req.Role {
		case enums.RoleTeacher:
			if _, err := repo.CreateTeacher(ctx, profiles.CreateTeacherProfileDTO{
				ProfileID:        profile.ID,
				SchoolName:       strings.TrimSpace(req.School.Name),
				SchoolAddress:    strings.TrimSpace(req.School.Address),
				SchoolCity:       strings.TrimSpace(req.School.City),
				SchoolState:      strings.TrimSpace(req.School.State),
				SchoolPostalCode: strings.TrimSpace(req.School.PostalCode),
				PositionTitle:    strings.TrimSpace(req.School.PositionTitle),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create teacher profile")
			}
		case enums.RoleDonor:
			if _, err := repo.CreateDonor(ctx, profile.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create donor profile")
			}
		}

		return nil
	})
}
