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
)

type profileStore interface {
	repositories.StudentStore
	repositories.FacultyStore
}

// UserService reads and updates student and faculty profiles
type UserService struct {
	store  profileStore
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(store profileStore, logger zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// GetStudentProfile returns the caller's student profile
func (s *UserService) GetStudentProfile(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.store.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("caller has no student profile")
		}
		return nil, err
	}
	return student, nil
}

// UpdateStudentProfile replaces the caller's profile fields
func (s *UserService) UpdateStudentProfile(ctx context.Context, userID string, req *dto.UpdateStudentProfileRequest) (*models.Student, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if req.Year <= 0 {
		return nil, apperrors.NewValidationError("year must be positive")
	}

	student, err := s.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	student.Name = strings.TrimSpace(req.Name)
	student.Year = req.Year
	student.Interests = joinKeywords(req.Interests)
	student.Skills = joinKeywords(req.Skills)

	if err := s.store.UpdateStudentProfile(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.ID).Msg("Student profile updated")
	return student, nil
}

// GetFacultyProfile returns the caller's faculty profile
func (s *UserService) GetFacultyProfile(ctx context.Context, userID string) (*models.Faculty, error) {
	faculty, err := s.store.GetFacultyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("caller has no faculty profile")
		}
		return nil, err
	}
	return faculty, nil
}

// UpdateFacultyProfile replaces the caller's profile fields
func (s *UserService) UpdateFacultyProfile(ctx context.Context, userID string, req *dto.UpdateFacultyProfileRequest) (*models.Faculty, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	faculty, err := s.GetFacultyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	faculty.Name = strings.TrimSpace(req.Name)
	faculty.Designation = strings.TrimSpace(req.Designation)
	faculty.ResearchInterests = joinKeywords(req.ResearchInterests)
	faculty.Email = strings.TrimSpace(req.Email)
	faculty.Phone = strings.TrimSpace(req.Phone)
	faculty.Office = strings.TrimSpace(req.Office)

	if err := s.store.UpdateFacultyProfile(ctx, faculty); err != nil {
		return nil, err
	}

	s.logger.Info().Str("facultyID", faculty.ID).Msg("Faculty profile updated")
	return faculty, nil
}
