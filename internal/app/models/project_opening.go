package models

import "time"

// ProjectOpening is a research opportunity posted by a faculty member
type ProjectOpening struct {
	ID             string        `json:"id" db:"id"`
	FacultyID      string        `json:"facultyId" db:"faculty_id"`
	Title          string        `json:"title" db:"title"`
	Description    string        `json:"description" db:"description"`
	TechStack      string        `json:"techStack" db:"tech_stack"`
	RequiredSkills string        `json:"requiredSkills" db:"required_skills"`
	Status         ProjectStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`

	Faculty *Faculty `json:"faculty,omitempty"`
}

// IsOpen reports whether the project accepts new applications
func (p *ProjectOpening) IsOpen() bool {
	return p.Status == ProjectStatusOpen
}

// ProjectFilter narrows a project traversal. Empty fields are ignored.
type ProjectFilter struct {
	Status       ProjectStatus
	FacultyID    string
	DepartmentID string
}
