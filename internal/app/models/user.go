package models

import (
	"time"
)

// User is the identity record behind a student or faculty profile
type User struct {
	ID           string    `json:"id" db:"id" example:"4b0f8e0e-3b8c-4a43-9a55-6f7b7a1b2c3d"`
	Email        string    `json:"email" db:"email" example:"ada@uni.edu"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RoleType     RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
