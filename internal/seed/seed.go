package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appRepos "github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/config"
)

// EnsureDepartments creates the configured departments that do not exist yet.
// Every entry is attempted; failures are collected.
func EnsureDepartments(ctx context.Context, store appRepos.DepartmentStore, seeds []config.DepartmentSeed, lgr zerolog.Logger) error {
	if len(seeds) == 0 {
		return nil
	}

	lgr.Info().Int("count", len(seeds)).Msg("Checking/Creating default departments...")
	var finalErr error
	for _, s := range seeds {
		dept, err := store.EnsureDepartment(ctx, s.Name, s.Code)
		if err != nil {
			lgr.Error().Err(err).Str("name", s.Name).Str("code", s.Code).Msg("Error ensuring department")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Str("departmentID", dept.ID).Str("code", dept.Code).Msg("Department ready")
	}
	return finalErr
}
