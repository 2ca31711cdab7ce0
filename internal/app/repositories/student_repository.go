package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

var studentColumns = []string{
	"s.id", "s.user_id", "s.name", "s.year", "s.interests", "s.skills", "s.department_id",
	"d.name", "d.code",
}

// StudentRepository handles student profiles
type StudentRepository struct {
	pgRepository
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(pg *db.PostgresDB) *StudentRepository {
	return &StudentRepository{pgRepository: newPGRepository(pg)}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{Department: &models.Department{}}
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Year, &s.Interests, &s.Skills, &s.DepartmentID,
		&s.Department.Name, &s.Department.Code)
	if err != nil {
		return nil, err
	}
	s.Department.ID = s.DepartmentID
	return s, nil
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	return r.getStudent(ctx, "s.id", id)
}

// GetStudentByUserID retrieves a student by user ID
func (r *StudentRepository) GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return r.getStudent(ctx, "s.user_id", userID)
}

func (r *StudentRepository) getStudent(ctx context.Context, column, id string) (*models.Student, error) {
	if !validID(id) {
		return nil, apperrors.NewResourceNotFoundError("student not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select(studentColumns...).
		From("students s").
		Join("departments d ON d.id = s.department_id").
		Where(squirrel.Eq{column: id}), "get student")
	if err != nil {
		return nil, err
	}

	s, err := scanStudent(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, rowError(err, "get student", "student")
	}
	return s, nil
}

// UpdateStudentProfile updates the mutable profile fields of a student
func (r *StudentRepository) UpdateStudentProfile(ctx context.Context, s *models.Student) error {
	if !validID(s.ID) {
		return apperrors.NewResourceNotFoundError("student not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Update("students").
		Set("name", s.Name).
		Set("year", s.Year).
		Set("interests", s.Interests).
		Set("skills", s.Skills).
		Where(squirrel.Eq{"id": s.ID}), "update student")
	if err != nil {
		return err
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return buildOrStoreError(err, "update student")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("student not found")
	}
	return nil
}

// studentExists reports whether the student node exists, locking it for the
// rest of the transaction.
func studentExists(ctx context.Context, q querier, sb squirrel.StatementBuilderType, id string) error {
	sql, args, err := toSQL(sb.Select("1").From("students").Where(squirrel.Eq{"id": id}).Suffix("FOR SHARE"), "check student")
	if err != nil {
		return err
	}
	var one int
	if err := q.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewResourceNotFoundError("student not found")
		}
		return buildOrStoreError(err, "check student")
	}
	return nil
}
