package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/services"
	"github.com/yigit/labmatch/internal/middleware"
)

// UserController serves the caller's own profile
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetStudentProfile returns the calling student's profile
// @Summary Get my student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /students/me [get]
func (c *UserController) GetStudentProfile(ctx *gin.Context) {
	student, err := c.userService.GetStudentProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// UpdateStudentProfile replaces the calling student's profile fields
// @Summary Update my student profile
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /students/me [put]
func (c *UserController) UpdateStudentProfile(ctx *gin.Context) {
	var req dto.UpdateStudentProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.userService.UpdateStudentProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Profile updated"))
}

// GetFacultyProfile returns the calling faculty member's profile
// @Summary Get my faculty profile
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Faculty}
// @Router /faculty/me [get]
func (c *UserController) GetFacultyProfile(ctx *gin.Context) {
	faculty, err := c.userService.GetFacultyProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty, ""))
}

// UpdateFacultyProfile replaces the calling faculty member's profile fields
// @Summary Update my faculty profile
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateFacultyProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Faculty}
// @Router /faculty/me [put]
func (c *UserController) UpdateFacultyProfile(ctx *gin.Context) {
	var req dto.UpdateFacultyProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	faculty, err := c.userService.UpdateFacultyProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty, "Profile updated"))
}
