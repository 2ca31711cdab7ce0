package repositories

import (
	"context"
	"time"

	"github.com/yigit/labmatch/internal/app/models"
)

// The graph store adapter. Nodes (users, departments, students, faculty,
// projects, notifications) and the Application edge are reached only through
// these interfaces. Implementations report a missing node or edge with
// apperrors.ErrResourceNotFound, transient infrastructure failures with
// apperrors.ErrStoreUnavailable and broken invariants with
// apperrors.ErrStoreInconsistent.

// UserStore accesses identity records
type UserStore interface {
	// CreateUserWithProfile stores a user together with exactly one of student
	// or faculty in a single transaction.
	CreateUserWithProfile(ctx context.Context, user *models.User, student *models.Student, faculty *models.Faculty) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// DepartmentStore accesses department reference data
type DepartmentStore interface {
	// EnsureDepartment returns the department matching name or code, creating it
	// on first reference.
	EnsureDepartment(ctx context.Context, name, code string) (*models.Department, error)
	GetDepartmentByID(ctx context.Context, id string) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]*models.Department, error)
}

// StudentStore accesses student profiles
type StudentStore interface {
	GetStudentByID(ctx context.Context, id string) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error)
	UpdateStudentProfile(ctx context.Context, student *models.Student) error
}

// FacultyStore accesses faculty profiles
type FacultyStore interface {
	GetFacultyByID(ctx context.Context, id string) (*models.Faculty, error)
	GetFacultyByUserID(ctx context.Context, userID string) (*models.Faculty, error)
	UpdateFacultyProfile(ctx context.Context, faculty *models.Faculty) error
}

// ProjectStore accesses project openings
type ProjectStore interface {
	CreateProject(ctx context.Context, project *models.ProjectOpening) error
	GetProjectByID(ctx context.Context, id string) (*models.ProjectOpening, error)
	// ListProjects traverses projects, newest first, joined with their author.
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.ProjectOpening, error)
	UpdateProjectStatus(ctx context.Context, id string, status models.ProjectStatus) error
	// DeleteProjectCascade removes the project and every application edge
	// pointing to it atomically, returning the number of edges removed.
	DeleteProjectCascade(ctx context.Context, id string) (int, error)
}

// ApplicationStore accesses the Student -> ProjectOpening application edge
type ApplicationStore interface {
	// CreateApplication is the atomic check-and-create primitive: it verifies
	// that both endpoints exist and the project is open, and inserts the edge
	// only if none exists for the pair. An existing edge yields
	// apperrors.ErrDuplicateApplication.
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, studentID, projectID string) (*models.Application, error)
	// TransitionApplication moves a pending edge to status, stamping
	// respondedAt. A missing edge yields ErrResourceNotFound; a non-pending one
	// yields ErrInvalidTransition.
	TransitionApplication(ctx context.Context, studentID, projectID string, status models.ApplicationStatus, respondedAt time.Time) (*models.Application, error)
	// ListApplicationsByFaculty returns edges into the faculty's projects,
	// applied-at descending with ties ordered by (student id, project id).
	ListApplicationsByFaculty(ctx context.Context, facultyID string) ([]*models.ApplicationView, error)
	// ListApplicationsByStudent returns the student's edges, applied-at descending.
	ListApplicationsByStudent(ctx context.Context, studentID string) ([]*models.ApplicationView, error)
}

// NotificationStore accesses notification nodes
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	// MarkNotificationRead flips is_read to true. Already-read notifications stay read.
	MarkNotificationRead(ctx context.Context, userID, id string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Store is the complete graph store adapter
type Store interface {
	UserStore
	DepartmentStore
	StudentStore
	FacultyStore
	ProjectStore
	ApplicationStore
	NotificationStore

	Ping(ctx context.Context) error
	Close()
}
