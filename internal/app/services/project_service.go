package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/matching"
)

type projectStore interface {
	repositories.FacultyStore
	repositories.ProjectStore
}

// ProjectService manages project openings
type ProjectService struct {
	store  projectStore
	logger zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(store projectStore, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		logger: logger,
	}
}

// Create posts a new open project for the calling faculty member
func (s *ProjectService) Create(ctx context.Context, facultyUserID string, req *dto.CreateProjectRequest) (*models.ProjectOpening, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}

	faculty, err := s.store.GetFacultyByUserID(ctx, facultyUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("only faculty members can post projects")
		}
		return nil, err
	}

	project := &models.ProjectOpening{
		FacultyID:      faculty.ID,
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		TechStack:      joinKeywords(req.TechStack),
		RequiredSkills: joinKeywords(req.RequiredSkills),
		Status:         models.ProjectStatusOpen,
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	project.Faculty = faculty

	s.logger.Info().
		Str("projectID", project.ID).
		Str("facultyID", faculty.ID).
		Msg("Project created")
	return project, nil
}

// Get returns a project by ID
func (s *ProjectService) Get(ctx context.Context, projectID string) (*models.ProjectOpening, error) {
	return s.store.GetProjectByID(ctx, projectID)
}

// ListOpen lists open projects, optionally within one department
func (s *ProjectService) ListOpen(ctx context.Context, departmentID string) ([]*models.ProjectOpening, error) {
	return s.store.ListProjects(ctx, models.ProjectFilter{
		Status:       models.ProjectStatusOpen,
		DepartmentID: strings.TrimSpace(departmentID),
	})
}

// ListByFacultyUser lists every project of the calling faculty member
func (s *ProjectService) ListByFacultyUser(ctx context.Context, facultyUserID string) ([]*models.ProjectOpening, error) {
	faculty, err := s.store.GetFacultyByUserID(ctx, facultyUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("only faculty members own projects")
		}
		return nil, err
	}
	return s.store.ListProjects(ctx, models.ProjectFilter{FacultyID: faculty.ID})
}

// SetStatus closes or reopens a project owned by the caller. Closing keeps
// existing applications and blocks new ones.
func (s *ProjectService) SetStatus(ctx context.Context, facultyUserID, projectID string, status models.ProjectStatus) (*models.ProjectOpening, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be open or closed")
	}

	project, err := ownedProject(ctx, s.store, facultyUserID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == status {
		return project, nil
	}

	if err := s.store.UpdateProjectStatus(ctx, projectID, status); err != nil {
		return nil, err
	}
	project.Status = status

	s.logger.Info().
		Str("projectID", projectID).
		Str("status", string(status)).
		Msg("Project status changed")
	return project, nil
}

// joinKeywords normalizes a free-form keyword list to its canonical
// comma-separated form.
func joinKeywords(raw string) string {
	return strings.Join(matching.Normalize(raw), ", ")
}
