package models

// Student defines the student profile, 1:1 with a User
type Student struct {
	ID           string `json:"id" db:"id"`
	UserID       string `json:"userId" db:"user_id"`
	Name         string `json:"name" db:"name" example:"Ada Lovelace"`
	Year         int    `json:"year" db:"year" example:"3"`
	Interests    string `json:"interests" db:"interests" example:"machine learning, web dev"`
	Skills       string `json:"skills" db:"skills" example:"python, go"`
	DepartmentID string `json:"departmentId" db:"department_id"`

	Department *Department `json:"department,omitempty"`
}
