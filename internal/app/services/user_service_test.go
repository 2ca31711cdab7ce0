package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

func TestUserService_UpdateStudentProfile(t *testing.T) {
	w := newWorld(t, 1)
	svc := NewUserService(w.store, zerolog.Nop())
	ctx := context.Background()

	updated, err := svc.UpdateStudentProfile(ctx, w.students[0].UserID, &dto.UpdateStudentProfileRequest{
		Name:      "Ada L.",
		Year:      4,
		Interests: "Robotics\nComputer Vision",
	})
	require.NoError(t, err)
	assert.Equal(t, "robotics, computer vision", updated.Interests)

	reloaded, err := svc.GetStudentProfile(ctx, w.students[0].UserID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Year)
	assert.Equal(t, "Ada L.", reloaded.Name)

	_, err = svc.UpdateStudentProfile(ctx, w.students[0].UserID, &dto.UpdateStudentProfileRequest{Name: "Ada", Year: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.GetStudentProfile(ctx, w.faculty.UserID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUserService_UpdateFacultyProfile(t *testing.T) {
	w := newWorld(t, 1)
	svc := NewUserService(w.store, zerolog.Nop())
	ctx := context.Background()

	updated, err := svc.UpdateFacultyProfile(ctx, w.faculty.UserID, &dto.UpdateFacultyProfileRequest{
		Name:              "Grace H.",
		ResearchInterests: "Distributed Systems;  ",
		Office:            "B-201",
	})
	require.NoError(t, err)
	assert.Equal(t, "distributed systems", updated.ResearchInterests)

	reloaded, err := svc.GetFacultyProfile(ctx, w.faculty.UserID)
	require.NoError(t, err)
	assert.Equal(t, "B-201", reloaded.Office)

	_, err = svc.UpdateFacultyProfile(ctx, w.students[0].UserID, &dto.UpdateFacultyProfileRequest{Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
