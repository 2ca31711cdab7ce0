package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/matching"
)

func TestProjectService_CreateNormalizesKeywords(t *testing.T) {
	w := newWorld(t, 1)
	svc := NewProjectService(w.store, zerolog.Nop())
	ctx := context.Background()

	p, err := svc.Create(ctx, w.faculty.UserID, &dto.CreateProjectRequest{
		Title:     "  Vision  ",
		TechStack: "Python; PyTorch|python",
	})
	require.NoError(t, err)
	assert.Equal(t, "Vision", p.Title)
	assert.Equal(t, "python, pytorch", p.TechStack)
	assert.Equal(t, models.ProjectStatusOpen, p.Status)

	_, err = svc.Create(ctx, w.students[0].UserID, &dto.CreateProjectRequest{Title: "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Create(ctx, w.faculty.UserID, &dto.CreateProjectRequest{Title: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestProjectService_CloseBlocksApplyAndKeepsEdges(t *testing.T) {
	w := newWorld(t, 2)
	svc := NewProjectService(w.store, zerolog.Nop())
	ctx := context.Background()

	_, err := w.apps.Apply(ctx, w.students[0].ID, w.project.ID)
	require.NoError(t, err)

	closed, err := svc.SetStatus(ctx, w.faculty.UserID, w.project.ID, models.ProjectStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusClosed, closed.Status)

	_, err = w.apps.Apply(ctx, w.students[1].ID, w.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	views, err := w.apps.ListApplicationsForFaculty(ctx, w.faculty.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	open, err := svc.ListOpen(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.SetStatus(ctx, w.faculty.UserID, w.project.ID, models.ProjectStatusOpen)
	require.NoError(t, err)
	_, err = w.apps.Apply(ctx, w.students[1].ID, w.project.ID)
	assert.NoError(t, err)

	stranger := w.addFaculty(t, "stranger")
	_, err = svc.SetStatus(ctx, stranger.UserID, w.project.ID, models.ProjectStatusClosed)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.SetStatus(ctx, w.faculty.UserID, w.project.ID, "archived")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestProjectService_ListOpenByDepartment(t *testing.T) {
	w := newWorld(t, 0)
	svc := NewProjectService(w.store, zerolog.Nop())
	ctx := context.Background()

	other, err := w.store.EnsureDepartment(ctx, "Physics", "PHY")
	require.NoError(t, err)

	inCS, err := svc.ListOpen(ctx, w.dept.ID)
	require.NoError(t, err)
	require.Len(t, inCS, 1)
	assert.Equal(t, w.project.ID, inCS[0].ID)

	inPhysics, err := svc.ListOpen(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, inPhysics)

	mine, err := svc.ListByFacultyUser(ctx, w.faculty.UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMatchingService_ScoreAndExplain(t *testing.T) {
	w := newWorld(t, 0)
	svc := NewMatchingService(w.store, matching.NewEngine(matching.DefaultWeights()))
	ctx := context.Background()

	// compilers matches faculty, go matches the tech stack, cooking matches nothing
	student := w.addStudent(t, "ada", "compilers, go, cooking")

	score, err := svc.Score(ctx, student.ID, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 25+20+15, score)

	explained, err := svc.ExplainForUser(ctx, student.UserID, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, score, explained.Score)
	assert.Equal(t, []string{"compilers"}, explained.Breakdown.FacultyMatches)
	assert.Equal(t, []string{"go"}, explained.Breakdown.ProjectMatches)

	_, err = svc.Score(ctx, student.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = svc.ExplainForUser(ctx, w.faculty.UserID, w.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestMatchingService_RecommendRanksOpenProjects(t *testing.T) {
	w := newWorld(t, 0)
	svc := NewMatchingService(w.store, matching.NewEngine(matching.DefaultWeights()))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	w.store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	create := func(title, stack string) *models.ProjectOpening {
		p := &models.ProjectOpening{FacultyID: w.faculty.ID, Title: title, TechStack: stack}
		require.NoError(t, w.store.CreateProject(ctx, p))
		return p
	}
	older := create("Robotics", "ros")
	newer := create("Drones", "ros")
	best := create("Learning systems", "machine learning")
	closed := create("Archived", "machine learning")
	require.NoError(t, w.store.UpdateProjectStatus(ctx, closed.ID, models.ProjectStatusClosed))

	student := w.addStudent(t, "ada", "machine learning")

	ranked, err := svc.Recommend(ctx, student.UserID, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Project.ID)
		assert.NotEqual(t, closed.ID, r.Project.ID)
	}
	require.Len(t, ids, 4)
	assert.Equal(t, best.ID, ids[0])
	// equal scores stay newest first; the fixture project was stamped by the real clock
	assert.Equal(t, []string{w.project.ID, newer.ID, older.ID}, ids[1:])

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	top, err := svc.Recommend(ctx, student.UserID, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, best.ID, top[0].Project.ID)
}
