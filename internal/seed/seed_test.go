package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/repositories/memstore"
	"github.com/yigit/labmatch/internal/config"
)

func TestEnsureDepartments_IsIdempotent(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	seeds := []config.DepartmentSeed{
		{Name: "Computer Science", Code: "cs"},
		{Name: "Physics", Code: "PHY"},
	}

	require.NoError(t, EnsureDepartments(ctx, store, seeds, zerolog.Nop()))
	require.NoError(t, EnsureDepartments(ctx, store, seeds, zerolog.Nop()))

	departments, err := store.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 2)
}

func TestEnsureDepartments_ContinuesPastFailures(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	seeds := []config.DepartmentSeed{
		{Name: "", Code: "BAD"},
		{Name: "Biology", Code: "BIO"},
	}

	err := EnsureDepartments(ctx, store, seeds, zerolog.Nop())
	assert.Error(t, err)

	departments, err := store.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "BIO", departments[0].Code)
}
