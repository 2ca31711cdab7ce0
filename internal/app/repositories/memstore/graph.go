package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// Projects

func (s *Store) projectCopy(p *models.ProjectOpening) *models.ProjectOpening {
	c := *p
	if f, ok := s.faculty[p.FacultyID]; ok {
		fc := *f
		fc.Department = nil
		c.Faculty = &fc
	}
	return &c
}

// CreateProject stores a project posted by an existing faculty member
func (s *Store) CreateProject(ctx context.Context, p *models.ProjectOpening) error {
	if err := checkCtx(ctx, "create project"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.faculty[p.FacultyID]; !ok {
		return notFound("faculty")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusOpen
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: project_openings_status_check", apperrors.ErrValidationFailed)
	}
	p.CreatedAt = s.now().UTC()

	c := *p
	c.Faculty = nil
	s.projects[c.ID] = &c
	return nil
}

// GetProjectByID retrieves a project with its author
func (s *Store) GetProjectByID(ctx context.Context, id string) (*models.ProjectOpening, error) {
	if err := checkCtx(ctx, "get project"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, notFound("project")
	}
	return s.projectCopy(p), nil
}

// ListProjects traverses projects matching filter, newest first
func (s *Store) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.ProjectOpening, error) {
	if err := checkCtx(ctx, "list projects"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ProjectOpening, 0)
	for _, p := range s.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.FacultyID != "" && p.FacultyID != filter.FacultyID {
			continue
		}
		if filter.DepartmentID != "" {
			f, ok := s.faculty[p.FacultyID]
			if !ok || f.DepartmentID != filter.DepartmentID {
				continue
			}
		}
		out = append(out, s.projectCopy(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateProjectStatus opens or closes a project
func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status models.ProjectStatus) error {
	if err := checkCtx(ctx, "update project status"); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: project_openings_status_check", apperrors.ErrValidationFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return notFound("project")
	}
	p.Status = status
	return nil
}

// DeleteProjectCascade removes the project and every edge into it
func (s *Store) DeleteProjectCascade(ctx context.Context, id string) (int, error) {
	if err := checkCtx(ctx, "delete project"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return 0, notFound("project")
	}

	removed := 0
	for key, edges := range s.applications {
		if key.ProjectID == id {
			removed += len(edges)
			delete(s.applications, key)
		}
	}
	delete(s.projects, id)
	return removed, nil
}

// Applications

// CreateApplication is the atomic check-and-create of a pending edge
func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	if err := checkCtx(ctx, "create application"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[app.ProjectID]
	if !ok {
		return notFound("project")
	}
	if !p.IsOpen() {
		return apperrors.NewValidationError("project is not open for applications")
	}
	if _, ok := s.students[app.StudentID]; !ok {
		return notFound("student")
	}

	key := app.Key()
	if len(s.applications[key]) > 0 {
		return apperrors.ErrDuplicateApplication
	}

	c := *app
	s.applications[key] = []*models.Application{&c}
	return nil
}

// GetApplication retrieves the edge for a (student, project) pair
func (s *Store) GetApplication(ctx context.Context, studentID, projectID string) (*models.Application, error) {
	if err := checkCtx(ctx, "get application"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := s.applications[models.ApplicationKey{StudentID: studentID, ProjectID: projectID}]
	switch len(edges) {
	case 0:
		return nil, notFound("application")
	case 1:
		c := *edges[0]
		return &c, nil
	default:
		return nil, fmt.Errorf("%w: %d application edges for student %s and project %s",
			apperrors.ErrStoreInconsistent, len(edges), studentID, projectID)
	}
}

// TransitionApplication moves a pending edge to status
func (s *Store) TransitionApplication(ctx context.Context, studentID, projectID string, status models.ApplicationStatus, respondedAt time.Time) (*models.Application, error) {
	if err := checkCtx(ctx, "transition application"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	edges := s.applications[models.ApplicationKey{StudentID: studentID, ProjectID: projectID}]
	switch len(edges) {
	case 0:
		return nil, notFound("application")
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d application edges for student %s and project %s",
			apperrors.ErrStoreInconsistent, len(edges), studentID, projectID)
	}

	edge := edges[0]
	if !edge.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, edge.Status, status)
	}
	edge.Status = status
	at := respondedAt
	edge.RespondedAt = &at

	c := *edge
	return &c, nil
}

func (s *Store) listViews(match func(*models.Application, *models.ProjectOpening) bool) []*models.ApplicationView {
	views := make([]*models.ApplicationView, 0)
	for _, edges := range s.applications {
		for _, a := range edges {
			p, ok := s.projects[a.ProjectID]
			if !ok || !match(a, p) {
				continue
			}
			v := &models.ApplicationView{Application: *a}
			if st, ok := s.students[a.StudentID]; ok {
				sc := *st
				sc.Department = nil
				v.Student = &sc
			}
			pc := *p
			pc.Faculty = nil
			v.Project = &pc
			views = append(views, v)
		}
	}

	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.AppliedAt.Equal(b.AppliedAt) {
			return a.AppliedAt.After(b.AppliedAt)
		}
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		return a.ProjectID < b.ProjectID
	})
	return views
}

// ListApplicationsByFaculty returns every edge into the faculty's projects
func (s *Store) ListApplicationsByFaculty(ctx context.Context, facultyID string) ([]*models.ApplicationView, error) {
	if err := checkCtx(ctx, "list faculty applications"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listViews(func(_ *models.Application, p *models.ProjectOpening) bool {
		return p.FacultyID == facultyID
	}), nil
}

// ListApplicationsByStudent returns every edge out of the student
func (s *Store) ListApplicationsByStudent(ctx context.Context, studentID string) ([]*models.ApplicationView, error) {
	if err := checkCtx(ctx, "list student applications"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listViews(func(a *models.Application, _ *models.ProjectOpening) bool {
		return a.StudentID == studentID
	}), nil
}

// Notifications

// CreateNotification persists n, assigning an ID if it has none
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := checkCtx(ctx, "create notification"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[n.RecipientUserID]; !ok {
		return notFound("recipient")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	c := *n
	s.notifications[c.ID] = &c
	return nil
}

// ListNotifications returns the user's notifications, newest first
func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if err := checkCtx(ctx, "list notifications"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientUserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkNotificationRead flips is_read on a notification owned by userID
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	if err := checkCtx(ctx, "mark notification read"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.RecipientUserID != userID {
		return notFound("notification")
	}
	n.IsRead = true
	return nil
}

// CountUnread counts the user's unread notifications
func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	if err := checkCtx(ctx, "count unread"); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.RecipientUserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
