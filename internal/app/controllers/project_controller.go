package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/services"
	"github.com/yigit/labmatch/internal/middleware"
	"github.com/yigit/labmatch/internal/pkg/helpers"
)

// ProjectController handles project openings and their ranking
type ProjectController struct {
	projectService     *services.ProjectService
	applicationService *services.ApplicationService
	matchingService    *services.MatchingService
}

// NewProjectController creates a new ProjectController
func NewProjectController(
	projectService *services.ProjectService,
	applicationService *services.ApplicationService,
	matchingService *services.MatchingService,
) *ProjectController {
	return &ProjectController{
		projectService:     projectService,
		applicationService: applicationService,
		matchingService:    matchingService,
	}
}

// ListOpenProjects lists open projects, newest first
// @Summary List open projects
// @Tags projects
// @Produce json
// @Param departmentId query string false "Department filter"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /projects [get]
func (c *ProjectController) ListOpenProjects(ctx *gin.Context) {
	projects, err := c.projectService.ListOpen(ctx.Request.Context(), ctx.Query("departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: projects, Count: len(projects)}, ""))
}

// GetProject returns one project
// @Summary Get project by ID
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.APIResponse{data=models.ProjectOpening}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	project, err := c.projectService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, ""))
}

// CreateProject posts a new project for the calling faculty member
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.APIResponse{data=models.ProjectOpening}
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(project, "Project created"))
}

// UpdateProjectStatus closes or reopens a project
// @Summary Close or reopen project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.UpdateProjectStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=models.ProjectOpening}
// @Router /projects/{id}/status [patch]
func (c *ProjectController) UpdateProjectStatus(ctx *gin.Context) {
	var req dto.UpdateProjectStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.SetStatus(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project status updated"))
}

// DeleteProject deletes a project and every application to it
// @Summary Delete project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteProjectResponse}
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	projectID := ctx.Param("id")
	removed, err := c.applicationService.DeleteProjectAsFaculty(ctx.Request.Context(), middleware.CurrentUserID(ctx), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DeleteProjectResponse{
		ProjectID:           projectID,
		RemovedApplications: removed,
	}, "Project deleted"))
}

// ListMyProjects lists every project of the calling faculty member
// @Summary List my projects
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /faculty/me/projects [get]
func (c *ProjectController) ListMyProjects(ctx *gin.Context) {
	projects, err := c.projectService.ListByFacultyUser(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: projects, Count: len(projects)}, ""))
}

// RecommendedProjects ranks open projects for the calling student
// @Summary Recommended projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum results"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /projects/recommended [get]
func (c *ProjectController) RecommendedProjects(ctx *gin.Context) {
	limit, err := helpers.ParseLimit(ctx, 0, helpers.MaxPageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ranked, err := c.matchingService.Recommend(ctx.Request.Context(), middleware.CurrentUserID(ctx), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: ranked, Count: len(ranked)}, ""))
}

// ProjectScore returns the caller's match score for one project
// @Summary Match score
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScoredProject}
// @Router /projects/{id}/score [get]
func (c *ProjectController) ProjectScore(ctx *gin.Context) {
	scored, err := c.matchingService.ExplainForUser(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scored, ""))
}
