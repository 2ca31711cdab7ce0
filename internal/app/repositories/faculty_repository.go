package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

var facultyColumns = []string{
	"f.id", "f.user_id", "f.name", "f.designation", "f.research_interests",
	"f.email", "f.phone", "f.office", "f.department_id",
	"d.name", "d.code",
}

// FacultyRepository handles faculty profiles
type FacultyRepository struct {
	pgRepository
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(pg *db.PostgresDB) *FacultyRepository {
	return &FacultyRepository{pgRepository: newPGRepository(pg)}
}

func scanFaculty(row pgx.Row) (*models.Faculty, error) {
	f := &models.Faculty{Department: &models.Department{}}
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Designation, &f.ResearchInterests,
		&f.Email, &f.Phone, &f.Office, &f.DepartmentID,
		&f.Department.Name, &f.Department.Code)
	if err != nil {
		return nil, err
	}
	f.Department.ID = f.DepartmentID
	return f, nil
}

// GetFacultyByID retrieves a faculty member by ID
func (r *FacultyRepository) GetFacultyByID(ctx context.Context, id string) (*models.Faculty, error) {
	return r.getFaculty(ctx, "f.id", id)
}

// GetFacultyByUserID retrieves a faculty member by user ID
func (r *FacultyRepository) GetFacultyByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	return r.getFaculty(ctx, "f.user_id", userID)
}

func (r *FacultyRepository) getFaculty(ctx context.Context, column, id string) (*models.Faculty, error) {
	if !validID(id) {
		return nil, apperrors.NewResourceNotFoundError("faculty not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select(facultyColumns...).
		From("faculty f").
		Join("departments d ON d.id = f.department_id").
		Where(squirrel.Eq{column: id}), "get faculty")
	if err != nil {
		return nil, err
	}

	f, err := scanFaculty(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, rowError(err, "get faculty", "faculty")
	}
	return f, nil
}

// UpdateFacultyProfile updates the mutable profile fields of a faculty member
func (r *FacultyRepository) UpdateFacultyProfile(ctx context.Context, f *models.Faculty) error {
	if !validID(f.ID) {
		return apperrors.NewResourceNotFoundError("faculty not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Update("faculty").
		SetMap(map[string]interface{}{
			"name":               f.Name,
			"designation":        f.Designation,
			"research_interests": f.ResearchInterests,
			"email":              f.Email,
			"phone":              f.Phone,
			"office":             f.Office,
		}).
		Where(squirrel.Eq{"id": f.ID}), "update faculty")
	if err != nil {
		return err
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return buildOrStoreError(err, "update faculty")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("faculty not found")
	}
	return nil
}
