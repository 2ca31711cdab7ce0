package dto

import "github.com/yigit/labmatch/internal/app/models"

// DecideApplicationRequest carries a faculty decision
type DecideApplicationRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=accepted rejected"`
}
