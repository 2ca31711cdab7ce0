package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/dberrors"
)

var projectColumns = []string{
	"p.id", "p.faculty_id", "p.title", "p.description", "p.tech_stack", "p.required_skills",
	"p.status", "p.created_at",
}

// ProjectRepository handles project openings
type ProjectRepository struct {
	pgRepository
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(pg *db.PostgresDB) *ProjectRepository {
	return &ProjectRepository{pgRepository: newPGRepository(pg)}
}

// projectScanTargets returns scan destinations matching projectColumns
func projectScanTargets(p *models.ProjectOpening) []interface{} {
	return []interface{}{
		&p.ID, &p.FacultyID, &p.Title, &p.Description, &p.TechStack, &p.RequiredSkills,
		&p.Status, &p.CreatedAt,
	}
}

func (r *ProjectRepository) selectProjects() squirrel.SelectBuilder {
	return r.sb.Select(projectColumns...).
		Columns("f.name", "f.designation", "f.department_id", "f.research_interests").
		From("project_openings p").
		Join("faculty f ON f.id = p.faculty_id")
}

func scanProject(row pgx.Row) (*models.ProjectOpening, error) {
	p := &models.ProjectOpening{Faculty: &models.Faculty{}}
	targets := append(projectScanTargets(p),
		&p.Faculty.Name, &p.Faculty.Designation, &p.Faculty.DepartmentID, &p.Faculty.ResearchInterests)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	p.Faculty.ID = p.FacultyID
	return p, nil
}

// CreateProject inserts a project opening posted by an existing faculty member
func (r *ProjectRepository) CreateProject(ctx context.Context, p *models.ProjectOpening) error {
	if !validID(p.FacultyID) {
		return apperrors.NewResourceNotFoundError("faculty not found")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusOpen
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Insert("project_openings").
		Columns("id", "faculty_id", "title", "description", "tech_stack", "required_skills", "status").
		Values(p.ID, p.FacultyID, p.Title, p.Description, p.TechStack, p.RequiredSkills, p.Status).
		Suffix("RETURNING created_at"), "create project")
	if err != nil {
		return err
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.NewResourceNotFoundError("faculty not found")
		}
		return buildOrStoreError(err, "create project")
	}
	return nil
}

// GetProjectByID retrieves a project with its author
func (r *ProjectRepository) GetProjectByID(ctx context.Context, id string) (*models.ProjectOpening, error) {
	if !validID(id) {
		return nil, apperrors.NewResourceNotFoundError("project not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.selectProjects().Where(squirrel.Eq{"p.id": id}), "get project")
	if err != nil {
		return nil, err
	}

	p, err := scanProject(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, rowError(err, "get project", "project")
	}
	return p, nil
}

// ListProjects traverses projects matching filter, newest first
func (r *ProjectRepository) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.ProjectOpening, error) {
	q := r.selectProjects()
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"p.status": filter.Status})
	}
	if filter.FacultyID != "" {
		if !validID(filter.FacultyID) {
			return []*models.ProjectOpening{}, nil
		}
		q = q.Where(squirrel.Eq{"p.faculty_id": filter.FacultyID})
	}
	if filter.DepartmentID != "" {
		if !validID(filter.DepartmentID) {
			return []*models.ProjectOpening{}, nil
		}
		q = q.Where(squirrel.Eq{"f.department_id": filter.DepartmentID})
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(q.OrderBy("p.created_at DESC", "p.id ASC"), "list projects")
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, buildOrStoreError(err, "list projects")
	}
	defer rows.Close()

	projects := make([]*models.ProjectOpening, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, buildOrStoreError(err, "scan project")
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, buildOrStoreError(err, "list projects")
	}
	return projects, nil
}

// UpdateProjectStatus opens or closes a project. Existing applications are untouched.
func (r *ProjectRepository) UpdateProjectStatus(ctx context.Context, id string, status models.ProjectStatus) error {
	if !validID(id) {
		return apperrors.NewResourceNotFoundError("project not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Update("project_openings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}), "update project status")
	if err != nil {
		return err
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return buildOrStoreError(err, "update project status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("project not found")
	}
	return nil
}

// DeleteProjectCascade deletes the project and all of its application edges
// in one transaction.
func (r *ProjectRepository) DeleteProjectCascade(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, apperrors.NewResourceNotFoundError("project not found")
	}

	var removed int
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := toSQL(r.sb.Select("id").From("project_openings").
			Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"), "lock project")
		if err != nil {
			return err
		}
		var locked string
		if err := tx.QueryRow(ctx, sql, args...).Scan(&locked); err != nil {
			return rowError(err, "lock project", "project")
		}

		sql, args, err = toSQL(r.sb.Delete("applications").Where(squirrel.Eq{"project_id": id}), "delete applications")
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return buildOrStoreError(err, "delete applications")
		}
		removed = int(tag.RowsAffected())

		sql, args, err = toSQL(r.sb.Delete("project_openings").Where(squirrel.Eq{"id": id}), "delete project")
		if err != nil {
			return err
		}
		tag, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return buildOrStoreError(err, "delete project")
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: locked project %s vanished during delete", apperrors.ErrStoreInconsistent, id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
