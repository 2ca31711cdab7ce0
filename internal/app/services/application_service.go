package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/keylock"
	"github.com/yigit/labmatch/internal/pkg/metrics"
)

// lifecycleStore is what the lifecycle manager reads and writes
type lifecycleStore interface {
	repositories.StudentStore
	repositories.FacultyStore
	repositories.ProjectStore
	repositories.ApplicationStore
}

// ApplicationService runs the application lifecycle: apply, decide and
// project withdrawal. Operations on the same (student, project) pair are
// serialized in-process; the store's uniqueness guarantee covers the rest.
type ApplicationService struct {
	store    lifecycleStore
	locks    *keylock.KeyedMutex[models.ApplicationKey]
	notifier Notifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	store lifecycleStore,
	notifier Notifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		store:    store,
		locks:    keylock.New[models.ApplicationKey](),
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// outcome labels an error for metrics
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return "invalid"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "forbidden"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return "unavailable"
	case errors.Is(err, apperrors.ErrStoreInconsistent):
		return "inconsistent"
	default:
		return "error"
	}
}

// observeStoreError logs and counts store-level failures
func (s *ApplicationService) observeStoreError(err error, log zerolog.Logger, op string) {
	switch {
	case errors.Is(err, apperrors.ErrStoreInconsistent):
		s.metrics.StoreError("inconsistent")
		log.Error().Err(err).Str("op", op).Msg("Store invariant violated")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		s.metrics.StoreError("unavailable")
		log.Warn().Err(err).Str("op", op).Msg("Store unavailable")
	}
}

// Apply creates a pending application from the student to the project
func (s *ApplicationService) Apply(ctx context.Context, studentID, projectID string) (*models.Application, error) {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(projectID) == "" {
		return nil, apperrors.NewValidationError("student id and project id are required")
	}

	log := s.logger.With().Str("studentID", studentID).Str("projectID", projectID).Logger()
	key := models.ApplicationKey{StudentID: studentID, ProjectID: projectID}

	unlock := s.locks.Lock(key)
	app := &models.Application{
		StudentID: studentID,
		ProjectID: projectID,
		Status:    models.ApplicationPending,
		AppliedAt: s.now().UTC(),
	}
	err := s.store.CreateApplication(ctx, app)
	unlock()

	s.metrics.ApplyOutcome(outcome(err))
	if err != nil {
		s.observeStoreError(err, log, "apply")
		return nil, err
	}

	log.Info().Msg("Application created")
	s.notifyFaculty(ctx, app, log)
	return app, nil
}

// ApplyAsUser resolves the caller's student profile and applies
func (s *ApplicationService) ApplyAsUser(ctx context.Context, userID, projectID string) (*models.Application, error) {
	student, err := s.store.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("only students can apply to projects")
		}
		return nil, err
	}
	return s.Apply(ctx, student.ID, projectID)
}

func (s *ApplicationService) notifyFaculty(ctx context.Context, app *models.Application, log zerolog.Logger) {
	if s.notifier == nil {
		return
	}

	project, err := s.store.GetProjectByID(ctx, app.ProjectID)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping application notification: project lookup failed")
		return
	}
	faculty, err := s.store.GetFacultyByID(ctx, project.FacultyID)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping application notification: faculty lookup failed")
		return
	}

	applicant := "A student"
	if student, err := s.store.GetStudentByID(ctx, app.StudentID); err == nil && student.Name != "" {
		applicant = student.Name
	}

	s.notifier.Emit(ctx, faculty.UserID, models.NotificationApplication,
		fmt.Sprintf("%s applied to %q", applicant, project.Title))
}

// Decide moves a pending application to accepted or rejected. Deciding an
// application that is no longer pending is an invalid transition.
func (s *ApplicationService) Decide(ctx context.Context, projectID, studentID string, status models.ApplicationStatus) (*models.Application, error) {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(projectID) == "" {
		return nil, apperrors.NewValidationError("student id and project id are required")
	}
	if !status.IsDecision() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("status must be %q or %q", models.ApplicationAccepted, models.ApplicationRejected))
	}

	log := s.logger.With().
		Str("studentID", studentID).
		Str("projectID", projectID).
		Str("status", string(status)).
		Logger()
	key := models.ApplicationKey{StudentID: studentID, ProjectID: projectID}

	unlock := s.locks.Lock(key)
	app, err := s.store.TransitionApplication(ctx, studentID, projectID, status, s.now().UTC())
	unlock()

	s.metrics.DecisionOutcome(string(status), outcome(err))
	if err != nil {
		s.observeStoreError(err, log, "decide")
		return nil, err
	}

	log.Info().Msg("Application decided")
	s.notifyStudent(ctx, app, log)
	return app, nil
}

// DecideAsFaculty checks that the caller owns the project before deciding
func (s *ApplicationService) DecideAsFaculty(ctx context.Context, facultyUserID, projectID, studentID string, status models.ApplicationStatus) (*models.Application, error) {
	if _, err := s.ownedProject(ctx, facultyUserID, projectID); err != nil {
		return nil, err
	}
	return s.Decide(ctx, projectID, studentID, status)
}

func (s *ApplicationService) notifyStudent(ctx context.Context, app *models.Application, log zerolog.Logger) {
	if s.notifier == nil {
		return
	}

	student, err := s.store.GetStudentByID(ctx, app.StudentID)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping decision notification: student lookup failed")
		return
	}

	title := "a project"
	if project, err := s.store.GetProjectByID(ctx, app.ProjectID); err == nil {
		title = fmt.Sprintf("%q", project.Title)
	}

	switch app.Status {
	case models.ApplicationAccepted:
		s.notifier.Emit(ctx, student.UserID, models.NotificationStatusUpdate,
			fmt.Sprintf("Your application to %s was accepted", title))
	case models.ApplicationRejected:
		s.notifier.Emit(ctx, student.UserID, models.NotificationReject,
			fmt.Sprintf("Your application to %s was rejected", title))
	}
}

// DeleteProject removes the project together with every application to it
// and returns how many applications were removed.
func (s *ApplicationService) DeleteProject(ctx context.Context, projectID string) (int, error) {
	if strings.TrimSpace(projectID) == "" {
		return 0, apperrors.NewValidationError("project id is required")
	}

	log := s.logger.With().Str("projectID", projectID).Logger()
	removed, err := s.store.DeleteProjectCascade(ctx, projectID)
	if err != nil {
		s.observeStoreError(err, log, "delete project")
		return 0, err
	}

	log.Info().Int("removedApplications", removed).Msg("Project deleted")
	return removed, nil
}

// DeleteProjectAsFaculty checks ownership before deleting
func (s *ApplicationService) DeleteProjectAsFaculty(ctx context.Context, facultyUserID, projectID string) (int, error) {
	if _, err := s.ownedProject(ctx, facultyUserID, projectID); err != nil {
		return 0, err
	}
	return s.DeleteProject(ctx, projectID)
}

// ownedProject loads the project and verifies the caller posted it
func (s *ApplicationService) ownedProject(ctx context.Context, facultyUserID, projectID string) (*models.ProjectOpening, error) {
	return ownedProject(ctx, s.store, facultyUserID, projectID)
}

// ListApplicationsForFaculty returns the applications to the faculty's
// projects, newest first. Equal timestamps keep the store's
// (student id, project id) order.
func (s *ApplicationService) ListApplicationsForFaculty(ctx context.Context, facultyID string) ([]*models.ApplicationView, error) {
	views, err := s.store.ListApplicationsByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].AppliedAt.After(views[j].AppliedAt)
	})
	return views, nil
}

// ListApplicationsForFacultyUser resolves the caller's faculty profile first
func (s *ApplicationService) ListApplicationsForFacultyUser(ctx context.Context, userID string) ([]*models.ApplicationView, error) {
	faculty, err := s.store.GetFacultyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("only faculty members have project applications")
		}
		return nil, err
	}
	return s.ListApplicationsForFaculty(ctx, faculty.ID)
}

// ListApplicationsForStudentUser returns the caller's own applications
func (s *ApplicationService) ListApplicationsForStudentUser(ctx context.Context, userID string) ([]*models.ApplicationView, error) {
	student, err := s.store.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("only students have applications")
		}
		return nil, err
	}
	return s.store.ListApplicationsByStudent(ctx, student.ID)
}

type ownershipStore interface {
	repositories.FacultyStore
	repositories.ProjectStore
}

// ownedProject loads the project and verifies facultyUserID posted it
func ownedProject(ctx context.Context, store ownershipStore, facultyUserID, projectID string) (*models.ProjectOpening, error) {
	faculty, err := store.GetFacultyByUserID(ctx, facultyUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("only faculty members can manage projects")
		}
		return nil, err
	}
	project, err := store.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.FacultyID != faculty.ID {
		return nil, apperrors.NewForbiddenError("project belongs to another faculty member")
	}
	return project, nil
}
