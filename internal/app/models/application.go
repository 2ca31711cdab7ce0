package models

import "time"

// ApplicationKey identifies an application edge. The edge has no identity of
// its own beyond the (student, project) pair.
type ApplicationKey struct {
	StudentID string
	ProjectID string
}

// Application is the Student -> ProjectOpening edge carrying lifecycle state
type Application struct {
	StudentID   string            `json:"studentId" db:"student_id"`
	ProjectID   string            `json:"projectId" db:"project_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	AppliedAt   time.Time         `json:"appliedAt" db:"applied_at"`
	RespondedAt *time.Time        `json:"respondedAt,omitempty" db:"responded_at"`
}

// Key returns the composite identity of the edge
func (a *Application) Key() ApplicationKey {
	return ApplicationKey{StudentID: a.StudentID, ProjectID: a.ProjectID}
}

// ApplicationView is an application edge joined with both of its endpoints
type ApplicationView struct {
	Application
	Student *Student        `json:"student,omitempty"`
	Project *ProjectOpening `json:"project,omitempty"`
}
