package repositories

import (
	"context"

	"github.com/yigit/labmatch/internal/db"
)

// Repositories holds all the PostgreSQL repository instances and satisfies Store
type Repositories struct {
	*UserRepository
	*DepartmentRepository
	*StudentRepository
	*FacultyRepository
	*ProjectRepository
	*ApplicationRepository
	*NotificationRepository

	pg *db.PostgresDB
}

var _ Store = (*Repositories)(nil)

// NewRepositories initializes all repositories over one pool
func NewRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(pg),
		DepartmentRepository:   NewDepartmentRepository(pg),
		StudentRepository:      NewStudentRepository(pg),
		FacultyRepository:      NewFacultyRepository(pg),
		ProjectRepository:      NewProjectRepository(pg),
		ApplicationRepository:  NewApplicationRepository(pg),
		NotificationRepository: NewNotificationRepository(pg),
		pg:                     pg,
	}
}

// Ping checks the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.pg.Ping(ctx)
}

// Close releases the pool
func (r *Repositories) Close() {
	r.pg.Close()
}
