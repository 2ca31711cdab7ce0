package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/dberrors"
	"github.com/yigit/labmatch/internal/pkg/logger"
)

const constraintApplicationsPair = "applications_pkey"

// ApplicationRepository handles the Student -> ProjectOpening edge
type ApplicationRepository struct {
	pgRepository
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(pg *db.PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{pgRepository: newPGRepository(pg)}
}

// CreateApplication checks both endpoints and inserts a pending edge if the
// pair has none. The project row is share-locked so a concurrent close or
// delete cannot interleave with the insert.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *models.Application) error {
	if !validID(app.ProjectID) {
		return apperrors.NewResourceNotFoundError("project not found")
	}
	if !validID(app.StudentID) {
		return apperrors.NewResourceNotFoundError("student not found")
	}

	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := toSQL(r.sb.Select("status").From("project_openings").
			Where(squirrel.Eq{"id": app.ProjectID}).Suffix("FOR SHARE"), "check project")
		if err != nil {
			return err
		}
		var status models.ProjectStatus
		if err := tx.QueryRow(ctx, sql, args...).Scan(&status); err != nil {
			return rowError(err, "check project", "project")
		}
		if status != models.ProjectStatusOpen {
			return apperrors.NewValidationError("project is not open for applications")
		}

		if err := studentExists(ctx, tx, r.sb, app.StudentID); err != nil {
			return err
		}

		sql, args, err = toSQL(r.sb.Insert("applications").
			Columns("student_id", "project_id", "status", "applied_at").
			Values(app.StudentID, app.ProjectID, app.Status, app.AppliedAt).
			Suffix("ON CONFLICT (student_id, project_id) DO NOTHING RETURNING applied_at"), "create application")
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&app.AppliedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) || dberrors.IsDuplicateConstraintError(err, constraintApplicationsPair) {
				return apperrors.ErrDuplicateApplication
			}
			return buildOrStoreError(err, "create application")
		}
		return nil
	})
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.StudentID, &a.ProjectID, &a.Status, &a.AppliedAt, &a.RespondedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetApplication retrieves the edge for a (student, project) pair
func (r *ApplicationRepository) GetApplication(ctx context.Context, studentID, projectID string) (*models.Application, error) {
	if !validID(studentID) || !validID(projectID) {
		return nil, apperrors.NewResourceNotFoundError("application not found")
	}

	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(r.sb.Select("student_id", "project_id", "status", "applied_at", "responded_at").
		From("applications").
		Where(squirrel.Eq{"student_id": studentID, "project_id": projectID}), "get application")
	if err != nil {
		return nil, err
	}

	a, err := scanApplication(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, rowError(err, "get application", "application")
	}
	return a, nil
}

// TransitionApplication reads the edge fresh under a row lock and moves it
// out of pending. It never touches any other edge.
func (r *ApplicationRepository) TransitionApplication(ctx context.Context, studentID, projectID string, status models.ApplicationStatus, respondedAt time.Time) (*models.Application, error) {
	if !validID(studentID) || !validID(projectID) {
		return nil, apperrors.NewResourceNotFoundError("application not found")
	}

	var result *models.Application
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := toSQL(r.sb.Select("student_id", "project_id", "status", "applied_at", "responded_at").
			From("applications").
			Where(squirrel.Eq{"student_id": studentID, "project_id": projectID}).
			Suffix("FOR UPDATE"), "lock application")
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return buildOrStoreError(err, "lock application")
		}
		var edges []*models.Application
		for rows.Next() {
			a, err := scanApplication(rows)
			if err != nil {
				rows.Close()
				return buildOrStoreError(err, "scan application")
			}
			edges = append(edges, a)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return buildOrStoreError(err, "lock application")
		}

		switch len(edges) {
		case 0:
			return apperrors.NewResourceNotFoundError("application not found")
		case 1:
		default:
			logger.Error().
				Str("studentID", studentID).
				Str("projectID", projectID).
				Int("edges", len(edges)).
				Msg("Multiple application edges for one pair")
			return fmt.Errorf("%w: %d application edges for student %s and project %s",
				apperrors.ErrStoreInconsistent, len(edges), studentID, projectID)
		}

		current := edges[0]
		if !current.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, current.Status, status)
		}

		sql, args, err = toSQL(r.sb.Update("applications").
			Set("status", status).
			Set("responded_at", respondedAt).
			Where(squirrel.Eq{"student_id": studentID, "project_id": projectID, "status": models.ApplicationPending}), "transition application")
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return buildOrStoreError(err, "transition application")
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: locked application changed during transition", apperrors.ErrStoreInconsistent)
		}

		current.Status = status
		current.RespondedAt = &respondedAt
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// selectApplicationViews joins each edge with both endpoints
func (r *ApplicationRepository) selectApplicationViews() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.student_id", "a.project_id", "a.status", "a.applied_at", "a.responded_at",
		"s.user_id", "s.name", "s.year", "s.interests", "s.skills", "s.department_id",
	).
		Columns(projectColumns...).
		From("applications a").
		Join("students s ON s.id = a.student_id").
		Join("project_openings p ON p.id = a.project_id").
		OrderBy("a.applied_at DESC", "a.student_id ASC", "a.project_id ASC")
}

func scanApplicationView(row pgx.Row) (*models.ApplicationView, error) {
	v := &models.ApplicationView{
		Student: &models.Student{},
		Project: &models.ProjectOpening{},
	}
	targets := []interface{}{
		&v.StudentID, &v.ProjectID, &v.Status, &v.AppliedAt, &v.RespondedAt,
		&v.Student.UserID, &v.Student.Name, &v.Student.Year, &v.Student.Interests, &v.Student.Skills, &v.Student.DepartmentID,
	}
	targets = append(targets, projectScanTargets(v.Project)...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	v.Student.ID = v.StudentID
	return v, nil
}

func (r *ApplicationRepository) listViews(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*models.ApplicationView, error) {
	ctx, cancel := r.pg.WithTimeout(ctx)
	defer cancel()

	sql, args, err := toSQL(q, op)
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, buildOrStoreError(err, op)
	}
	defer rows.Close()

	views := make([]*models.ApplicationView, 0)
	for rows.Next() {
		v, err := scanApplicationView(rows)
		if err != nil {
			return nil, buildOrStoreError(err, op)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, buildOrStoreError(err, op)
	}
	return views, nil
}

// ListApplicationsByFaculty returns every edge into the faculty's projects
func (r *ApplicationRepository) ListApplicationsByFaculty(ctx context.Context, facultyID string) ([]*models.ApplicationView, error) {
	if !validID(facultyID) {
		return []*models.ApplicationView{}, nil
	}
	return r.listViews(ctx, r.selectApplicationViews().Where(squirrel.Eq{"p.faculty_id": facultyID}), "list faculty applications")
}

// ListApplicationsByStudent returns every edge out of the student
func (r *ApplicationRepository) ListApplicationsByStudent(ctx context.Context, studentID string) ([]*models.ApplicationView, error) {
	if !validID(studentID) {
		return []*models.ApplicationView{}, nil
	}
	return r.listViews(ctx, r.selectApplicationViews().Where(squirrel.Eq{"a.student_id": studentID}), "list student applications")
}
