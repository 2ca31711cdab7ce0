package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/repositories"
)

// DepartmentService handles department reference data
type DepartmentService struct {
	store  repositories.DepartmentStore
	logger zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(store repositories.DepartmentStore, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{store: store, logger: logger}
}

// List returns every department ordered by name
func (s *DepartmentService) List(ctx context.Context) ([]*models.Department, error) {
	return s.store.ListDepartments(ctx)
}

// Get returns a department by ID
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	return s.store.GetDepartmentByID(ctx, id)
}

// Ensure returns the department with name or code, creating it if needed
func (s *DepartmentService) Ensure(ctx context.Context, name, code string) (*models.Department, error) {
	d, err := s.store.EnsureDepartment(ctx, name, code)
	if err != nil {
		return nil, fmt.Errorf("ensure department %s: %w", code, err)
	}
	return d, nil
}
