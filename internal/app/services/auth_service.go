package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/auth"
)

type authStore interface {
	repositories.UserStore
	repositories.DepartmentStore
}

// AuthService handles signup and login
type AuthService struct {
	store      authStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store authStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters long")
	}

	hasLetter, hasDigit := false, false
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter {
		return apperrors.NewValidationError("password must contain at least one letter")
	}
	if !hasDigit {
		return apperrors.NewValidationError("password must contain at least one digit")
	}

	return nil
}

// Register creates a user together with the profile its role requires. The
// department is created on first reference.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if !req.RoleType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.RoleType))
	}

	department, err := s.store.EnsureDepartment(ctx, req.DepartmentName, req.DepartmentCode)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		RoleType:     req.RoleType,
	}

	var (
		student *models.Student
		faculty *models.Faculty
	)
	switch req.RoleType {
	case models.RoleStudent:
		if req.Year <= 0 {
			return nil, apperrors.NewValidationError("year must be positive for students")
		}
		student = &models.Student{
			Name:         strings.TrimSpace(req.Name),
			Year:         req.Year,
			Interests:    joinKeywords(req.Interests),
			Skills:       joinKeywords(req.Skills),
			DepartmentID: department.ID,
		}
	case models.RoleFaculty:
		faculty = &models.Faculty{
			Name:              strings.TrimSpace(req.Name),
			Designation:       strings.TrimSpace(req.Designation),
			ResearchInterests: joinKeywords(req.ResearchInterests),
			Email:             email,
			Phone:             strings.TrimSpace(req.Phone),
			Office:            strings.TrimSpace(req.Office),
			DepartmentID:      department.ID,
		}
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.RoleType))
	}

	if err := s.store.CreateUserWithProfile(ctx, user, student, faculty); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userID", user.ID).
		Str("role", string(user.RoleType)).
		Str("departmentID", department.ID).
		Msg("User registered")

	return s.authResponse(user)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: user,
	}, nil
}
