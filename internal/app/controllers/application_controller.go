package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/services"
	"github.com/yigit/labmatch/internal/middleware"
)

// ApplicationController exposes the application lifecycle
type ApplicationController struct {
	applicationService *services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService *services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// Apply creates a pending application from the calling student
// @Summary Apply to project
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 201 {object} dto.APIResponse{data=models.Application}
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /projects/{id}/applications [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	app, err := c.applicationService.ApplyAsUser(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(app, "Application submitted"))
}

// Decide accepts or rejects a pending application
// @Summary Decide application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param studentId path string true "Student ID"
// @Param request body dto.DecideApplicationRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 409 {object} dto.ErrorResponse "Already decided"
// @Router /projects/{id}/applications/{studentId} [put]
func (c *ApplicationController) Decide(ctx *gin.Context) {
	var req dto.DecideApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.DecideAsFaculty(ctx.Request.Context(),
		middleware.CurrentUserID(ctx), ctx.Param("id"), ctx.Param("studentId"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(app, "Application "+string(app.Status)))
}

// ListForFaculty lists applications to the caller's projects, newest first
// @Summary Applications to my projects
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /faculty/me/applications [get]
func (c *ApplicationController) ListForFaculty(ctx *gin.Context) {
	views, err := c.applicationService.ListApplicationsForFacultyUser(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: views, Count: len(views)}, ""))
}

// ListForStudent lists the caller's own applications
// @Summary My applications
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /students/me/applications [get]
func (c *ApplicationController) ListForStudent(ctx *gin.Context) {
	views, err := c.applicationService.ListApplicationsForStudentUser(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: views, Count: len(views)}, ""))
}
