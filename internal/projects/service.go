package projects

import (
	"context"
	"strings"

	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/classwish/classwish-backend/pkg/enums"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
	"github.com/classwish/classwish-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Service owns the project review state machine.
type Service interface {
	Create(ctx context.Context, actor profiles.Actor, req CreateProjectRequest) (*ProjectDTO, error)
	Update(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectDTO, error)
	SubmitForReview(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*ProjectDTO, error)
	Approve(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note *string) (*ProjectDTO, error)
	RequestRevision(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note string) (*ProjectDTO, error)
	Deny(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note string) (*ProjectDTO, error)
	ResetToDraft(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, allowDeniedReset bool) (*ProjectDTO, error)
	MarkFunded(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*ProjectDTO, error)
	Complete(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*ProjectDTO, error)
	ListOwn(ctx context.Context, actor profiles.Actor) ([]ProjectDTO, error)
	ListReviewQueue(ctx context.Context, actor profiles.Actor, cursor string, limit int) (ProjectPageDTO, error)
	ListApproved(ctx context.Context, cursor string, limit int) (ProjectPageDTO, error)
	GetPublic(ctx context.Context, projectID uuid.UUID) (*ProjectDTO, error)
}

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Project, error)
	ListByStatus(ctx context.Context, status enums.ProjectStatus, cursor string, limit int) (ProjectPageDTO, error)
	UpdateDetails(ctx context.Context, projectID uuid.UUID, columns map[string]any, editable []enums.ProjectStatus) (int64, error)
	TransitionStatus(ctx context.Context, projectID uuid.UUID, from, to enums.ProjectStatus, note *string) (int64, error)
}

type teacherResolver interface {
	FindTeacherByProfile(ctx context.Context, profileID uuid.UUID) (*models.TeacherProfile, error)
}

// ServiceParams bundles the dependencies for the project lifecycle service.
type ServiceParams struct {
	Repo     projectRepository
	Teachers teacherResolver
	Logger   *logger.Logger
	Metrics  *metrics.PlatformMetrics
}

type service struct {
	repo     projectRepository
	teachers teacherResolver
	logg     *logger.Logger
	metrics  *metrics.PlatformMetrics
}

// NewService constructs the project lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project repository is required")
	}
	if params.Teachers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "teacher resolver is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		teachers: params.Teachers,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

var editableStatuses = []enums.ProjectStatus{
	enums.ProjectStatusDraft,
	enums.ProjectStatusNeedsRevision,
}

// Create opens a new draft for the acting teacher. The teacher account
// must already be activated by an admin.
func (s *service) Create(ctx context.Context, actor profiles.Actor, req CreateProjectRequest) (*ProjectDTO, error) {
	teacher, err := s.requireActiveTeacher(ctx, actor)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !req.FundingGoal.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "funding goal must be positive")
	}

	project := &models.Project{
		TeacherID:     teacher.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		StudentImpact: req.StudentImpact,
		FundingGoal:   req.FundingGoal,
		Status:        enums.ProjectStatusDraft,
		MainImageURL:  req.MainImageURL,
		EndDate:       req.EndDate,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return FromModel(project), nil
}

// Update edits a draft or needs_revision project owned by the actor.
func (s *service) Update(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectDTO, error) {
	project, err := s.loadOwnedProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		columns["title"] = title
	}
	if req.Description != nil {
		columns["description"] = *req.Description
	}
	if req.StudentImpact != nil {
		columns["student_impact"] = *req.StudentImpact
	}
	if req.FundingGoal != nil {
		if !req.FundingGoal.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "funding goal must be positive")
		}
		columns["funding_goal"] = *req.FundingGoal
	}
	if req.MainImageURL != nil {
		columns["main_image_url"] = *req.MainImageURL
	}
	if req.EndDate != nil {
		columns["end_date"] = *req.EndDate
	}
	if len(columns) == 0 {
		return FromModel(project), nil
	}

	rows, err := s.repo.UpdateDetails(ctx, project.ID, columns, editableStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project is no longer editable")
	}

	updated, err := s.repo.FindByID(ctx, project.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload project")
	}
	return FromModel(updated), nil
}

func (s *service) SubmitForReview(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusPendingReview, nil, false)
}

func (s *service) Approve(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note *string) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusApproved, note, false)
}

func (s *service) RequestRevision(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note string) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusNeedsRevision, &note, false)
}

func (s *service) Deny(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, note string) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusDenied, &note, false)
}

func (s *service) ResetToDraft(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, allowDeniedReset bool) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusDraft, nil, allowDeniedReset)
}

func (s *service) MarkFunded(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusFunded, nil, false)
}

func (s *service) Complete(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*ProjectDTO, error) {
	return s.transition(ctx, actor, projectID, enums.ProjectStatusCompleted, nil, false)
}

// transition validates the requested move against the transition table,
// then lets the conditional update settle any race. All checks precede
// the single write; nothing is mutated on failure.
func (s *service) transition(ctx context.Context, actor profiles.Actor, projectID uuid.UUID, to enums.ProjectStatus, note *string, allowDeniedReset bool) (*ProjectDTO, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated account required")
	}
	if projectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}

	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	from := project.Status
	rule, ok := ruleFor(from, to)
	if !ok || (rule.requiresDeniedReset && !allowDeniedReset) {
		s.metrics.IncTransition(from.String(), to.String(), "invalid")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transition from "+from.String()+" to "+to.String()+" is not allowed")
	}
	if !rule.allowsRole(actor.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role may not perform this transition")
	}
	if rule.ownerOnly && !actor.IsAdmin() {
		if err := s.ensureOwnership(ctx, actor, project); err != nil {
			return nil, err
		}
	}
	if rule.requiresNote && (note == nil || strings.TrimSpace(*note) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a review note is required for this decision")
	}

	rows, err := s.repo.TransitionStatus(ctx, project.ID, from, to, note)
	if err != nil {
		s.metrics.IncTransition(from.String(), to.String(), "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist transition")
	}
	if rows == 0 {
		// Someone else moved the project first. The conditional write is
		// the source of truth; surface the conflict, never retry.
		s.metrics.IncTransition(from.String(), to.String(), "conflict")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "project status changed concurrently")
	}
	s.metrics.IncTransition(from.String(), to.String(), "ok")

	updated, err := s.repo.FindByID(ctx, project.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload project")
	}
	return FromModel(updated), nil
}

// ListOwn returns the acting teacher's projects.
func (s *service) ListOwn(ctx context.Context, actor profiles.Actor) ([]ProjectDTO, error) {
	teacher, err := s.requireTeacher(ctx, actor)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	items := make([]ProjectDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}

// ListReviewQueue returns the pending_review projects for admins.
func (s *service) ListReviewQueue(ctx context.Context, actor profiles.Actor, cursor string, limit int) (ProjectPageDTO, error) {
	if !actor.Valid() {
		return ProjectPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated account required")
	}
	if !actor.IsAdmin() {
		return ProjectPageDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	page, err := s.repo.ListByStatus(ctx, enums.ProjectStatusPendingReview, cursor, limit)
	if err != nil {
		return ProjectPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list review queue")
	}
	return page, nil
}

// ListApproved returns the public listing of approved projects.
func (s *service) ListApproved(ctx context.Context, cursor string, limit int) (ProjectPageDTO, error) {
	page, err := s.repo.ListByStatus(ctx, enums.ProjectStatusApproved, cursor, limit)
	if err != nil {
		return ProjectPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved projects")
	}
	return page, nil
}

// GetPublic returns a project visible to unauthenticated readers.
func (s *service) GetPublic(ctx context.Context, projectID uuid.UUID) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	switch project.Status {
	case enums.ProjectStatusApproved, enums.ProjectStatusFunded, enums.ProjectStatusCompleted:
		return FromModel(project), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
	}
}

func (s *service) requireTeacher(ctx context.Context, actor profiles.Actor) (*models.TeacherProfile, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated account required")
	}
	if !actor.IsTeacher() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "teacher role required")
	}
	teacher, err := s.teachers.FindTeacherByProfile(ctx, actor.ProfileID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "teacher profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load teacher profile")
	}
	return teacher, nil
}

func (s *service) requireActiveTeacher(ctx context.Context, actor profiles.Actor) (*models.TeacherProfile, error) {
	teacher, err := s.requireTeacher(ctx, actor)
	if err != nil {
		return nil, err
	}
	if teacher.AccountStatus != enums.TeacherAccountStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "teacher account is pending activation")
	}
	return teacher, nil
}

func (s *service) loadOwnedProject(ctx context.Context, actor profiles.Actor, projectID uuid.UUID) (*models.Project, error) {
	if projectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	if err := s.ensureOwnership(ctx, actor, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) ensureOwnership(ctx context.Context, actor profiles.Actor, project *models.Project) error {
	teacher, err := s.requireTeacher(ctx, actor)
	if err != nil {
		return err
	}
	if project.TeacherID != teacher.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "project belongs to another teacher")
	}
	return nil
}
