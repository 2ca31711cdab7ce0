package dto

import (
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/pkg/matching"
)

// CreateProjectRequest represents a new project opening
type CreateProjectRequest struct {
	Title          string `json:"title" binding:"required,max=255"`
	Description    string `json:"description"`
	TechStack      string `json:"techStack"`
	RequiredSkills string `json:"requiredSkills"`
}

// UpdateProjectStatusRequest opens or closes a project
type UpdateProjectStatusRequest struct {
	Status models.ProjectStatus `json:"status" binding:"required,oneof=open closed"`
}

// DeleteProjectResponse reports the cascade size
type DeleteProjectResponse struct {
	ProjectID           string `json:"projectId"`
	RemovedApplications int    `json:"removedApplications"`
}

// ScoredProject is a project opening with its match score for the caller
type ScoredProject struct {
	Project   *models.ProjectOpening `json:"project"`
	Score     int                    `json:"score"`
	Breakdown *matching.Breakdown    `json:"breakdown,omitempty"`
}
