package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeacherAdminService is the reviewer surface for teacher account vetting.
type TeacherAdminService interface {
	SetTeacherStatus(ctx context.Context, actor Actor, teacherID uuid.UUID, status enums.TeacherAccountStatus) (*TeacherProfileDTO, error)
}

type teacherStore interface {
	FindTeacherByID(ctx context.Context, id uuid.UUID) (*models.TeacherProfile, error)
	UpdateTeacherStatus(ctx context.Context, teacherID uuid.UUID, status enums.TeacherAccountStatus) error
}

type teacherAdminService struct {
	store teacherStore
}

// NewTeacherAdminService builds the admin vetting service.
func NewTeacherAdminService(store teacherStore) (TeacherAdminService, error) {
	if store == nil {
		return nil, fmt.Errorf("teacher store is required")
	}
	return &teacherAdminService{store: store}, nil
}

func (s *teacherAdminService) SetTeacherStatus(ctx context.Context, actor Actor, teacherID uuid.UUID, status enums.TeacherAccountStatus) (*TeacherProfileDTO, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthenticated")
	}
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status")
	}

	if _, err := s.store.FindTeacherByID(ctx, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "teacher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load teacher")
	}

	if err := s.store.UpdateTeacherStatus(ctx, teacherID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update teacher status")
	}

	teacher, err := s.store.FindTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload teacher")
	}
	return TeacherFromModel(teacher), nil
}
