//go:build integration

package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/migrations"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/config"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// Run with: DB_HOST=localhost DB_USER=... DB_PASSWORD=... DB_NAME=... go test -tags integration ./internal/app/repositories/

type pgFixture struct {
	repos   *Repositories
	faculty *models.Faculty
	project *models.ProjectOpening
	dept    *models.Department
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	t.Setenv("STORE_DRIVER", config.StoreDriverPostgres)
	t.Setenv("JWT_SECRET", "integration-secret")

	cfg, err := config.LoadConfig("testdata/missing.yaml")
	if err != nil {
		t.Skipf("postgres not configured: %v", err)
	}
	pg, err := db.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	ctx := context.Background()
	require.NoError(t, migrations.NewMigrator(pg.Pool).Up(ctx))

	repos := NewRepositories(pg)
	t.Cleanup(repos.Close)

	suffix := uuid.NewString()[:8]
	dept, err := repos.EnsureDepartment(ctx, "Integration "+suffix, "I"+suffix)
	require.NoError(t, err)

	faculty := &models.Faculty{Name: "Grace", ResearchInterests: "compilers", DepartmentID: dept.ID}
	require.NoError(t, repos.CreateUserWithProfile(ctx, &models.User{
		Email: "grace-" + suffix + "@uni.edu", PasswordHash: "x", RoleType: models.RoleFaculty,
	}, nil, faculty))

	project := &models.ProjectOpening{FacultyID: faculty.ID, Title: "Parsers", TechStack: "go"}
	require.NoError(t, repos.CreateProject(ctx, project))

	return &pgFixture{repos: repos, faculty: faculty, project: project, dept: dept}
}

func (f *pgFixture) addStudent(t *testing.T) *models.Student {
	t.Helper()
	s := &models.Student{Name: "student", Year: 1, DepartmentID: f.dept.ID}
	require.NoError(t, f.repos.CreateUserWithProfile(context.Background(), &models.User{
		Email: "s-" + uuid.NewString() + "@uni.edu", PasswordHash: "x", RoleType: models.RoleStudent,
	}, s, nil))
	return s
}

func pendingEdge(studentID, projectID string) *models.Application {
	return &models.Application{
		StudentID: studentID,
		ProjectID: projectID,
		Status:    models.ApplicationPending,
		AppliedAt: time.Now().UTC(),
	}
}

func TestPostgres_CreateApplicationRejectsDuplicatePair(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	s := f.addStudent(t)

	require.NoError(t, f.repos.CreateApplication(ctx, pendingEdge(s.ID, f.project.ID)))
	err := f.repos.CreateApplication(ctx, pendingEdge(s.ID, f.project.ID))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateApplication)
}

func TestPostgres_ConcurrentCreateApplicationStoresOneEdge(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	s := f.addStudent(t)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		duplicate int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.repos.CreateApplication(ctx, pendingEdge(s.ID, f.project.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperrors.Is(err, apperrors.ErrDuplicateApplication):
				duplicate++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, duplicate)
}

func TestPostgres_CreateApplicationClosedProject(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	s := f.addStudent(t)

	require.NoError(t, f.repos.UpdateProjectStatus(ctx, f.project.ID, models.ProjectStatusClosed))
	err := f.repos.CreateApplication(ctx, pendingEdge(s.ID, f.project.ID))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPostgres_TransitionApplication(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	s := f.addStudent(t)
	other := f.addStudent(t)
	require.NoError(t, f.repos.CreateApplication(ctx, pendingEdge(s.ID, f.project.ID)))
	require.NoError(t, f.repos.CreateApplication(ctx, pendingEdge(other.ID, f.project.ID)))

	decidedAt := time.Now().UTC().Truncate(time.Millisecond)
	app, err := f.repos.TransitionApplication(ctx, s.ID, f.project.ID, models.ApplicationAccepted, decidedAt)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, app.Status)
	require.NotNil(t, app.RespondedAt)

	_, err = f.repos.TransitionApplication(ctx, s.ID, f.project.ID, models.ApplicationRejected, decidedAt)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	untouched, err := f.repos.GetApplication(ctx, other.ID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, untouched.Status)
	assert.Nil(t, untouched.RespondedAt)

	_, err = f.repos.TransitionApplication(ctx, f.addStudent(t).ID, f.project.ID, models.ApplicationAccepted, decidedAt)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestPostgres_DeleteProjectCascade(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	a, b := f.addStudent(t), f.addStudent(t)
	require.NoError(t, f.repos.CreateApplication(ctx, pendingEdge(a.ID, f.project.ID)))
	require.NoError(t, f.repos.CreateApplication(ctx, pendingEdge(b.ID, f.project.ID)))

	removed, err := f.repos.DeleteProjectCascade(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = f.repos.GetProjectByID(ctx, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.repos.GetApplication(ctx, a.ID, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	views, err := f.repos.ListApplicationsByStudent(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.repos.DeleteProjectCascade(ctx, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
