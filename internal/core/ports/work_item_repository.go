package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// EpicRepository defines persistence operations for epics.
type EpicRepository interface {
	Create(ctx context.Context, e *domain.Epic) error
	FindByID(ctx context.Context, id string) (*domain.Epic, error)
	ListByProductBacklog(ctx context.Context, backlogID string) ([]*domain.Epic, error)
	ListBySprintBacklog(ctx context.Context, sprintID string) ([]*domain.Epic, error)
	Update(ctx context.Context, e *domain.Epic) error
	Delete(ctx context.Context, id string) error
	DeleteByProductBacklog(ctx context.Context, backlogID string) error
	// UnlinkSprintBacklog clears the sprint reference of every epic in sprintID.
	UnlinkSprintBacklog(ctx context.Context, sprintID string) error
}

// UserStoryRepository defines persistence operations for user stories.
type UserStoryRepository interface {
	Create(ctx context.Context, s *domain.UserStory) error
	FindByID(ctx context.Context, id string) (*domain.UserStory, error)
	ListByProductBacklog(ctx context.Context, backlogID string) ([]*domain.UserStory, error)
	ListByRole(ctx context.Context, roleID string) ([]*domain.UserStory, error)
	ListByEpic(ctx context.Context, epicID string) ([]*domain.UserStory, error)
	CountByEpic(ctx context.Context, epicID string) (int64, error)
	CountByRole(ctx context.Context, roleID string) (int64, error)
	Update(ctx context.Context, s *domain.UserStory) error
	// UpdateStatus writes only the derived status of a story.
	UpdateStatus(ctx context.Context, id string, status domain.WorkStatus) error
	Delete(ctx context.Context, id string) error
	DeleteByProductBacklog(ctx context.Context, backlogID string) error
	// UnlinkEpic clears the epic reference of every story in epicID.
	UnlinkEpic(ctx context.Context, epicID string) error
}

// TestCaseRepository defines persistence operations for test cases.
type TestCaseRepository interface {
	Create(ctx context.Context, tc *domain.TestCase) error
	FindByID(ctx context.Context, id string) (*domain.TestCase, error)
	ListByUserStory(ctx context.Context, storyID string) ([]*domain.TestCase, error)
	Update(ctx context.Context, tc *domain.TestCase) error
	Delete(ctx context.Context, id string) error
	DeleteByUserStory(ctx context.Context, storyID string) error
}
