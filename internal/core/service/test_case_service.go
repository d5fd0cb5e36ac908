package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type storyStatusChecker interface {
	CheckUserStoryStatus(ctx context.Context, userStoryID string) (domain.WorkStatus, error)
}

// TestCaseService manages the test cases of user stories. Every write
// recomputes the status of the affected story.
type TestCaseService struct {
	repos  Repositories
	tx     ports.Transactor
	access *AccessService
	status storyStatusChecker
	log    zerolog.Logger
}

func NewTestCaseService(repos Repositories, tx ports.Transactor, access *AccessService, status storyStatusChecker, log zerolog.Logger) *TestCaseService {
	return &TestCaseService{repos: repos, tx: tx, access: access, status: status, log: log}
}

// CreateTestCase is open to the owner and to QA of the story's project.
func (s *TestCaseService) CreateTestCase(ctx context.Context, principal *domain.User, userStoryID string, in ports.TestCaseInput) (*domain.TestCase, error) {
	projectID, err := s.storyProject(ctx, userStoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckProjectAccess(ctx, principal, projectID, domain.PrivilegeQualityAssurance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tc := &domain.TestCase{
		Title:       in.Title,
		Description: in.Description,
		Result:      in.Result,
		UserStoryID: userStoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.TestCases.Create(ctx, tc); err != nil {
			return err
		}
		_, err := s.status.CheckUserStoryStatus(ctx, userStoryID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityTestCase).Inc()
	s.log.Info().Str("test_case_id", tc.ID).Str("user_story_id", userStoryID).Msg("test case created")
	return tc, nil
}

func (s *TestCaseService) GetTestCase(ctx context.Context, principal *domain.User, id string) (*domain.TestCase, error) {
	tc, err := s.repos.TestCases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	projectID, err := s.storyProject(ctx, tc.UserStoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TestCaseService) ListByUserStory(ctx context.Context, principal *domain.User, userStoryID string) ([]*domain.TestCase, error) {
	projectID, err := s.storyProject(ctx, userStoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}
	return s.repos.TestCases.ListByUserStory(ctx, userStoryID)
}

// UpdateTestCase records a new run result and moves the story along with it.
func (s *TestCaseService) UpdateTestCase(ctx context.Context, principal *domain.User, id string, in ports.TestCaseInput) (*domain.TestCase, error) {
	tc, err := s.repos.TestCases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	projectID, err := s.storyProject(ctx, tc.UserStoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckProjectAccess(ctx, principal, projectID, domain.PrivilegeQualityAssurance); err != nil {
		return nil, err
	}

	tc.Title = in.Title
	tc.Description = in.Description
	tc.Result = in.Result
	tc.UpdatedAt = time.Now().UTC()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.TestCases.Update(ctx, tc); err != nil {
			return err
		}
		_, err := s.status.CheckUserStoryStatus(ctx, tc.UserStoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TestCaseService) DeleteTestCase(ctx context.Context, principal *domain.User, id string) error {
	tc, err := s.repos.TestCases.FindByID(ctx, id)
	if err != nil {
		return err
	}
	projectID, err := s.storyProject(ctx, tc.UserStoryID)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.TestCases.Delete(ctx, tc.ID); err != nil {
			return err
		}
		_, err := s.status.CheckUserStoryStatus(ctx, tc.UserStoryID)
		return err
	})
	if err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntityTestCase).Inc()
	s.log.Info().Str("test_case_id", tc.ID).Msg("test case deleted")
	return nil
}

func (s *TestCaseService) storyProject(ctx context.Context, userStoryID string) (string, error) {
	story, err := s.repos.UserStories.FindByID(ctx, userStoryID)
	if err != nil {
		return "", err
	}
	backlog, err := s.repos.ProductBacklogs.FindByID(ctx, story.ProductBacklogID)
	if err != nil {
		return "", err
	}
	return backlog.ProjectID, nil
}
