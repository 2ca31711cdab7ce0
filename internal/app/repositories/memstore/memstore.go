// Package memstore is an in-process implementation of the graph store. It is
// used by tests and by the memory store driver; state is lost on exit.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// Store keeps every node and edge in maps guarded by one RWMutex
type Store struct {
	mu sync.RWMutex

	users         map[string]*models.User
	departments   map[string]*models.Department
	students      map[string]*models.Student
	faculty       map[string]*models.Faculty
	projects      map[string]*models.ProjectOpening
	applications  map[models.ApplicationKey][]*models.Application
	notifications map[string]*models.Notification

	now func() time.Time
}

var _ repositories.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		departments:   make(map[string]*models.Department),
		students:      make(map[string]*models.Student),
		faculty:       make(map[string]*models.Faculty),
		projects:      make(map[string]*models.ProjectOpening),
		applications:  make(map[models.ApplicationKey][]*models.Application),
		notifications: make(map[string]*models.Notification),
		now:           time.Now,
	}
}

// Ping honours context cancellation and otherwise always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return checkCtx(ctx, "ping")
}

// Close is a no-op
func (s *Store) Close() {}

func checkCtx(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, op, err)
	}
	return nil
}

func notFound(what string) error {
	return apperrors.NewResourceNotFoundError(what + " not found")
}

// Users

// CreateUserWithProfile stores the user and its profile atomically
func (s *Store) CreateUserWithProfile(ctx context.Context, user *models.User, student *models.Student, faculty *models.Faculty) error {
	if err := checkCtx(ctx, "create user"); err != nil {
		return err
	}

	switch user.RoleType {
	case models.RoleStudent:
		if student == nil || faculty != nil {
			return apperrors.NewValidationError("a student account needs exactly a student profile")
		}
	case models.RoleFaculty:
		if faculty == nil || student != nil {
			return apperrors.NewValidationError("a faculty account needs exactly a faculty profile")
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown role %q", user.RoleType))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	var departmentID string
	if student != nil {
		departmentID = student.DepartmentID
	} else {
		departmentID = faculty.DepartmentID
	}
	if _, ok := s.departments[departmentID]; !ok {
		return apperrors.NewCustomError(apperrors.ErrDepartmentNotFound, "department does not exist").WithCode("RES_001")
	}
	if student != nil && student.Year <= 0 {
		return fmt.Errorf("%w: students_year_check", apperrors.ErrValidationFailed)
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = s.now().UTC()
	u := *user
	s.users[u.ID] = &u

	if student != nil {
		if student.ID == "" {
			student.ID = uuid.NewString()
		}
		student.UserID = user.ID
		st := *student
		st.Department = nil
		s.students[st.ID] = &st
	} else {
		if faculty.ID == "" {
			faculty.ID = uuid.NewString()
		}
		faculty.UserID = user.ID
		f := *faculty
		f.Department = nil
		s.faculty[f.ID] = &f
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkCtx(ctx, "get user"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := checkCtx(ctx, "get user"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// Departments

// EnsureDepartment returns the department with name or code, creating it if needed
func (s *Store) EnsureDepartment(ctx context.Context, name, code string) (*models.Department, error) {
	if err := checkCtx(ctx, "ensure department"); err != nil {
		return nil, err
	}
	name, code = strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(code))
	if name == "" || code == "" {
		return nil, apperrors.NewValidationError("department name and code are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var match *models.Department
	for _, d := range s.departments {
		if d.Name == name || d.Code == code {
			if match == nil || d.Name < match.Name {
				match = d
			}
		}
	}
	if match != nil {
		c := *match
		return &c, nil
	}

	d := &models.Department{ID: uuid.NewString(), Name: name, Code: code}
	s.departments[d.ID] = d
	c := *d
	return &c, nil
}

// GetDepartmentByID retrieves a department by ID
func (s *Store) GetDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	if err := checkCtx(ctx, "get department"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	c := *d
	return &c, nil
}

// ListDepartments lists departments ordered by name
func (s *Store) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	if err := checkCtx(ctx, "list departments"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Students

func (s *Store) studentCopy(st *models.Student) *models.Student {
	c := *st
	if d, ok := s.departments[st.DepartmentID]; ok {
		dc := *d
		c.Department = &dc
	}
	return &c
}

// GetStudentByID retrieves a student by ID
func (s *Store) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	if err := checkCtx(ctx, "get student"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, notFound("student")
	}
	return s.studentCopy(st), nil
}

// GetStudentByUserID retrieves a student by user ID
func (s *Store) GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if err := checkCtx(ctx, "get student"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.students {
		if st.UserID == userID {
			return s.studentCopy(st), nil
		}
	}
	return nil, notFound("student")
}

// UpdateStudentProfile updates the mutable profile fields of a student
func (s *Store) UpdateStudentProfile(ctx context.Context, student *models.Student) error {
	if err := checkCtx(ctx, "update student"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[student.ID]
	if !ok {
		return notFound("student")
	}
	if student.Year <= 0 {
		return fmt.Errorf("%w: students_year_check", apperrors.ErrValidationFailed)
	}
	st.Name = student.Name
	st.Year = student.Year
	st.Interests = student.Interests
	st.Skills = student.Skills
	return nil
}

// Faculty

func (s *Store) facultyCopy(f *models.Faculty) *models.Faculty {
	c := *f
	if d, ok := s.departments[f.DepartmentID]; ok {
		dc := *d
		c.Department = &dc
	}
	return &c
}

// GetFacultyByID retrieves a faculty member by ID
func (s *Store) GetFacultyByID(ctx context.Context, id string) (*models.Faculty, error) {
	if err := checkCtx(ctx, "get faculty"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.faculty[id]
	if !ok {
		return nil, notFound("faculty")
	}
	return s.facultyCopy(f), nil
}

// GetFacultyByUserID retrieves a faculty member by user ID
func (s *Store) GetFacultyByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	if err := checkCtx(ctx, "get faculty"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.faculty {
		if f.UserID == userID {
			return s.facultyCopy(f), nil
		}
	}
	return nil, notFound("faculty")
}

// UpdateFacultyProfile updates the mutable profile fields of a faculty member
func (s *Store) UpdateFacultyProfile(ctx context.Context, faculty *models.Faculty) error {
	if err := checkCtx(ctx, "update faculty"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.faculty[faculty.ID]
	if !ok {
		return notFound("faculty")
	}
	f.Name = faculty.Name
	f.Designation = faculty.Designation
	f.ResearchInterests = faculty.ResearchInterests
	f.Email = faculty.Email
	f.Phone = faculty.Phone
	f.Office = faculty.Office
	return nil
}

// SetClock replaces the clock used for creation timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
