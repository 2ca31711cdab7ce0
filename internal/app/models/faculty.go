package models

// Faculty is a faculty member profile, 1:1 with a User
type Faculty struct {
	ID                string `json:"id" db:"id"`
	UserID            string `json:"userId" db:"user_id"`
	Name              string `json:"name" db:"name" example:"Grace Hopper"`
	Designation       string `json:"designation" db:"designation" example:"Associate Professor"`
	ResearchInterests string `json:"researchInterests" db:"research_interests" example:"compilers, NLP"`
	Email             string `json:"email,omitempty" db:"email"`
	Phone             string `json:"phone,omitempty" db:"phone"`
	Office            string `json:"office,omitempty" db:"office"`
	DepartmentID      string `json:"departmentId" db:"department_id"`

	Department *Department `json:"department,omitempty"`
}
