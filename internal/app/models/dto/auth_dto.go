package dto

import "github.com/yigit/labmatch/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest is the thin signup payload. Student fields are required for
// STUDENT accounts and faculty fields for FACULTY accounts.
type RegisterRequest struct {
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=8"`
	Name           string          `json:"name" binding:"required"`
	RoleType       models.RoleType `json:"roleType" binding:"required,oneof=STUDENT FACULTY"`
	DepartmentName string          `json:"departmentName" binding:"required"`
	DepartmentCode string          `json:"departmentCode" binding:"required,max=32"`

	// Student profile
	Year      int    `json:"year" binding:"omitempty,min=1"`
	Interests string `json:"interests"`
	Skills    string `json:"skills"`

	// Faculty profile
	Designation       string `json:"designation"`
	ResearchInterests string `json:"researchInterests"`
	Phone             string `json:"phone"`
	Office            string `json:"office"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}
