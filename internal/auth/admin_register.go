package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRegisterRequest contains the payload for provisioning an admin
// account. The route is only mounted outside production.
type AdminRegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// AdminRegisterService provisions reviewer accounts.
type AdminRegisterService interface {
	Register(ctx context.Context, req AdminRegisterRequest) error
}

type adminRegisterService struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) registerProfileRepository
	passwordCfg config.PasswordConfig
}

// NewAdminRegisterService builds the admin provisioning service.
func NewAdminRegisterService(params RegisterServiceParams) (AdminRegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	factory := params.ProfileRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	return &adminRegisterService{
		tx:          params.TxRunner,
		repoFactory: factory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *adminRegisterService) Register(ctx context.Context, req AdminRegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
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

		if _, err := repo.Create(ctx, profiles.CreateProfileDTO{
			AuthID:       uuid.NewString(),
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Role:         enums.RoleAdmin,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin profile")
		}
		return nil
	})
}
