package dto

// UpdateStudentProfileRequest replaces the student's profile fields
type UpdateStudentProfileRequest struct {
	Name      string `json:"name" binding:"required"`
	Year      int    `json:"year" binding:"required,min=1"`
	Interests string `json:"interests"`
	Skills    string `json:"skills"`
}

// UpdateFacultyProfileRequest replaces the faculty member's profile fields
type UpdateFacultyProfileRequest struct {
	Name              string `json:"name" binding:"required"`
	Designation       string `json:"designation"`
	ResearchInterests string `json:"researchInterests"`
	Email             string `json:"email" binding:"omitempty,email"`
	Phone             string `json:"phone"`
	Office            string `json:"office"`
}
