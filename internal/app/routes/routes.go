package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/controllers"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/middleware"
)

// Controllers groups every HTTP controller mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Department   *controllers.DepartmentController
	User         *controllers.UserController
	Project      *controllers.ProjectController
	Application  *controllers.ApplicationController
	Notification *controllers.NotificationController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes. stream may be nil when
// live notifications are disabled.
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	stream gin.HandlerFunc,
) {
	router.GET("/health", ctrl.Health.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrl.Health.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	departments := v1.Group("/departments")
	{
		departments.GET("", ctrl.Department.GetAllDepartments)
		departments.GET("/:id", ctrl.Department.GetDepartmentByID)
	}

	projects := v1.Group("/projects")
	{
		projects.GET("", ctrl.Project.ListOpenProjects)
		projects.GET("/:id", ctrl.Project.GetProject)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authenticated.Group("")
	students.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		students.GET("/students/me", ctrl.User.GetStudentProfile)
		students.PUT("/students/me", ctrl.User.UpdateStudentProfile)
		students.GET("/students/me/applications", ctrl.Application.ListForStudent)
		students.GET("/projects/recommended", ctrl.Project.RecommendedProjects)
		students.GET("/projects/:id/score", ctrl.Project.ProjectScore)
		students.POST("/projects/:id/applications", ctrl.Application.Apply)
	}

	faculty := authenticated.Group("")
	faculty.Use(authMiddleware.RoleRequired(models.RoleFaculty))
	{
		faculty.GET("/faculty/me", ctrl.User.GetFacultyProfile)
		faculty.PUT("/faculty/me", ctrl.User.UpdateFacultyProfile)
		faculty.GET("/faculty/me/projects", ctrl.Project.ListMyProjects)
		faculty.GET("/faculty/me/applications", ctrl.Application.ListForFaculty)
		faculty.POST("/projects", ctrl.Project.CreateProject)
		faculty.PATCH("/projects/:id/status", ctrl.Project.UpdateProjectStatus)
		faculty.DELETE("/projects/:id", ctrl.Project.DeleteProject)
		faculty.PUT("/projects/:id/applications/:studentId", ctrl.Application.Decide)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", ctrl.Notification.ListNotifications)
		notifications.PATCH("/:id/read", ctrl.Notification.MarkRead)
		if stream != nil {
			notifications.GET("/ws", stream)
		}
	}
}
