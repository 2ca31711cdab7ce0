package services

import (
	"context"
	"errors"
	"sort"

	"github.com/yigit/labmatch/internal/app/models"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/matching"
)

type matchingStore interface {
	repositories.StudentStore
	repositories.FacultyStore
	repositories.ProjectStore
}

// MatchingService scores projects for students. It only reads.
type MatchingService struct {
	store  matchingStore
	engine *matching.Engine
}

// NewMatchingService creates a new MatchingService
func NewMatchingService(store matchingStore, engine *matching.Engine) *MatchingService {
	return &MatchingService{store: store, engine: engine}
}

func projectText(p *models.ProjectOpening) matching.ProjectText {
	return matching.ProjectText{
		Title:          p.Title,
		Description:    p.Description,
		TechStack:      p.TechStack,
		RequiredSkills: p.RequiredSkills,
	}
}

// facultyInterests returns the research interests of the project's author
func (s *MatchingService) facultyInterests(ctx context.Context, p *models.ProjectOpening) (string, error) {
	if p.Faculty != nil && p.Faculty.ID == p.FacultyID {
		return p.Faculty.ResearchInterests, nil
	}
	f, err := s.store.GetFacultyByID(ctx, p.FacultyID)
	if err != nil {
		return "", err
	}
	return f.ResearchInterests, nil
}

// Explain scores one (student, project) pair with the matched keywords
func (s *MatchingService) Explain(ctx context.Context, studentID, projectID string) (*dto.ScoredProject, error) {
	student, err := s.store.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	project, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.explain(ctx, student, project)
}

func (s *MatchingService) explain(ctx context.Context, student *models.Student, project *models.ProjectOpening) (*dto.ScoredProject, error) {
	interests, err := s.facultyInterests(ctx, project)
	if err != nil {
		return nil, err
	}
	b := s.engine.Explain(student.Interests, projectText(project), interests)
	return &dto.ScoredProject{Project: project, Score: b.Score, Breakdown: &b}, nil
}

// Score returns the MatchScore of one (student, project) pair
func (s *MatchingService) Score(ctx context.Context, studentID, projectID string) (int, error) {
	scored, err := s.Explain(ctx, studentID, projectID)
	if err != nil {
		return 0, err
	}
	return scored.Score, nil
}

// ExplainForUser scores a project for the calling student
func (s *MatchingService) ExplainForUser(ctx context.Context, userID, projectID string) (*dto.ScoredProject, error) {
	student, err := s.studentForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.explain(ctx, student, project)
}

// Recommend ranks the open projects for the calling student by score,
// highest first. Equal scores keep newest-first order. limit <= 0 returns all.
func (s *MatchingService) Recommend(ctx context.Context, userID string, limit int) ([]*dto.ScoredProject, error) {
	student, err := s.studentForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx, models.ProjectFilter{Status: models.ProjectStatusOpen})
	if err != nil {
		return nil, err
	}

	ranked := make([]*dto.ScoredProject, 0, len(projects))
	for _, p := range projects {
		scored, err := s.explain(ctx, student, p)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *MatchingService) studentForUser(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.store.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("recommendations are available to students only")
		}
		return nil, err
	}
	return student, nil
}
