package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/dberrors"
)

const (
	constraintUsersEmail   = "users_email_key"
	constraintStudentsUser = "students_user_id_key"
	constraintFacultyUser  = "faculty_user_id_key"
)

var userColumns = []string{"id", "email", "password_hash", "role_type", "created_at"}

// UserRepository handles identity records in PostgreSQL
type UserRepository struct {
	pgRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pg *db.PostgresDB) *UserRepository {
	return &UserRepository{pgRepository: newPGRepository(pg)}
}

// CreateUserWithProfile inserts the user and its single profile in one transaction
func (r *UserRepository) CreateUserWithProfile(ctx context.Context, user *models.User, student *models.Student, faculty *models.Faculty) error {
	if err := checkProfileMatchesRole(user, student, faculty); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := toSQL(r.sb.Insert("users").
			Columns("id", "email", "password_hash", "role_type").
			Values(user.ID, user.Email, user.PasswordHash, user.RoleType).
			Suffix("RETURNING created_at"), "create user")
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&user.CreatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintUsersEmail) {
				return apperrors.ErrEmailAlreadyExists
			}
			return buildOrStoreError(err, "create user")
		}

		switch user.RoleType {
		case models.RoleStudent:
			student.UserID = user.ID
			return r.insertStudent(ctx, tx, student)
		case models.RoleFaculty:
			faculty.UserID = user.ID
			return r.insertFaculty(ctx, tx, faculty)
		default:
			return apperrors.NewValidationError(fmt.Sprintf("unknown role %q", user.RoleType))
		}
	})
}

func (r *UserRepository) insertStudent(ctx context.Context, q querier, s *models.Student) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	sql, args, err := toSQL(r.sb.Insert("students").
		Columns("id", "user_id", "name", "year", "interests", "skills", "department_id").
		Values(s.ID, s.UserID, s.Name, s.Year, s.Interests, s.Skills, s.DepartmentID), "create student")
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return profileInsertError(err, "create student", constraintStudentsUser)
	}
	return nil
}

func (r *UserRepository) insertFaculty(ctx context.Context, q querier, f *models.Faculty) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	sql, args, err := toSQL(r.sb.Insert("faculty").
		Columns("id", "user_id", "name", "designation", "research_interests", "email", "phone", "office", "department_id").
		Values(f.ID, f.UserID, f.Name, f.Designation, f.ResearchInterests, f.Email, f.Phone, f.Office, f.DepartmentID), "create faculty")
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return profileInsertError(err, "create faculty", constraintFacultyUser)
	}
	return nil
}

func profileInsertError(err error, op, userConstraint string) error {
	switch {
	case dberrors.IsForeignKeyError(err, ""):
		return apperrors.NewCustomError(apperrors.ErrDepartmentNotFound, "department does not exist").
			WithCode("RES_001")
	case dberrors.IsDuplicateConstraintError(err, userConstraint):
		return apperrors.NewConflictError("user already has a profile")
	default:
		return buildOrStoreError(err, op)
	}
}

// checkProfileMatchesRole enforces exactly one profile of the user's role
func checkProfileMatchesRole(user *models.User, student *models.Student, faculty *models.Faculty) error {
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
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, apperrors.ErrUserNotFound
	}
	return r.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *UserRepository) getUser(ctx context.Context, column, value string) (*models.User, error) {
	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select(userColumns...).From("users").Where(squirrel.Eq{column: value}), "get user")
	if err != nil {
		return nil, err
	}

	var u models.User
	err = r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.RoleType, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, rowError(err, "get user", "user")
	}
	return &u, nil
}
