package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	pgRepository
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(pg *db.PostgresDB) *DepartmentRepository {
	return &DepartmentRepository{pgRepository: newPGRepository(pg)}
}

// EnsureDepartment returns the department with the given name or code,
// creating it if neither exists.
func (r *DepartmentRepository) EnsureDepartment(ctx context.Context, name, code string) (*models.Department, error) {
	name, code = strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(code))
	if name == "" || code == "" {
		return nil, apperrors.NewValidationError("department name and code are required")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	if d, err := r.findByNameOrCode(ctx, name, code); err == nil {
		return d, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, buildOrStoreError(err, "ensure department")
	}

	sql, args, err := toSQL(r.sb.Insert("departments").
		Columns("id", "name", "code").
		Values(uuid.NewString(), name, code).
		Suffix("ON CONFLICT DO NOTHING RETURNING id, name, code"), "ensure department")
	if err != nil {
		return nil, err
	}

	var d models.Department
	err = r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.Name, &d.Code)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, buildOrStoreError(err, "ensure department")
	}

	// A concurrent caller created it first
	existing, err := r.findByNameOrCode(ctx, name, code)
	if err != nil {
		return nil, rowError(err, "ensure department", "department")
	}
	return existing, nil
}

func (r *DepartmentRepository) findByNameOrCode(ctx context.Context, name, code string) (*models.Department, error) {
	sql, args, err := toSQL(r.sb.Select("id", "name", "code").
		From("departments").
		Where(squirrel.Or{squirrel.Eq{"name": name}, squirrel.Eq{"code": code}}).
		OrderBy("name").
		Limit(1), "find department")
	if err != nil {
		return nil, err
	}

	var d models.Department
	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.Name, &d.Code); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDepartmentByID retrieves a department by ID
func (r *DepartmentRepository) GetDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	if !validID(id) {
		return nil, apperrors.ErrDepartmentNotFound
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select("id", "name", "code").From("departments").Where(squirrel.Eq{"id": id}), "get department")
	if err != nil {
		return nil, err
	}

	var d models.Department
	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.Name, &d.Code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, buildOrStoreError(err, "get department")
	}
	return &d, nil
}

// ListDepartments retrieves all departments ordered by name
func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select("id", "name", "code").From("departments").OrderBy("name"), "list departments")
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, buildOrStoreError(err, "list departments")
	}
	defer rows.Close()

	departments := make([]*models.Department, 0)
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code); err != nil {
			return nil, buildOrStoreError(err, "scan department")
		}
		departments = append(departments, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, buildOrStoreError(err, "list departments")
	}

	return departments, nil
}
