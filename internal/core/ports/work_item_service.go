package ports

import (
	"context"
	"time"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// EpicInput carries the editable fields of an epic. Empty priority or status
// keep the current value (or the default on create).
type EpicInput struct {
	Name        string
	Description string
	Priority    domain.Priority
	Status      domain.WorkStatus
	DueDate     *time.Time
}

// EpicDetail is an epic with the user stories linked to it.
type EpicDetail struct {
	Epic        *domain.Epic
	UserStories []*domain.UserStory
}

type EpicService interface {
	CreateEpic(ctx context.Context, principal *domain.User, input EpicInput) (*domain.Epic, error)
	GetEpic(ctx context.Context, principal *domain.User, id string) (*EpicDetail, error)
	ListEpics(ctx context.Context, principal *domain.User) ([]*domain.Epic, error)
	UpdateEpic(ctx context.Context, principal *domain.User, id string, input EpicInput) (*domain.Epic, error)
	DeleteEpic(ctx context.Context, principal *domain.User, id string) error
	LinkToSprintBacklog(ctx context.Context, principal *domain.User, sprintBacklogID, epicID string) (*domain.Epic, error)
	Unlink(ctx context.Context, principal *domain.User, epicID string) (*domain.Epic, error)
}

// UserStoryInput carries the data needed to create a user story.
type UserStoryInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	RoleID      string
}

// UserStoryUpdateInput carries the editable fields of a user story. Status is
// derived from test cases and cannot be set.
type UserStoryUpdateInput struct {
	Title       string
	Description string
	Priority    domain.Priority
}

type UserStoryService interface {
	CreateUserStory(ctx context.Context, principal *domain.User, input UserStoryInput) (*domain.UserStory, error)
	GetUserStory(ctx context.Context, principal *domain.User, id string) (*domain.UserStory, error)
	ListUserStories(ctx context.Context, principal *domain.User) ([]*domain.UserStory, error)
	ListByRole(ctx context.Context, principal *domain.User, roleID string) ([]*domain.UserStory, error)
	ListByEpic(ctx context.Context, principal *domain.User, epicID string) ([]*domain.UserStory, error)
	UpdateUserStory(ctx context.Context, principal *domain.User, id string, input UserStoryUpdateInput) (*domain.UserStory, error)
	DeleteUserStory(ctx context.Context, principal *domain.User, id string) error
	LinkToEpic(ctx context.Context, principal *domain.User, userStoryID, epicID string) (*domain.UserStory, error)
	UnlinkFromEpic(ctx context.Context, principal *domain.User, userStoryID string) (*domain.UserStory, error)
	// CheckUserStoryStatus recomputes and stores the status derived from the
	// story's test cases.
	CheckUserStoryStatus(ctx context.Context, userStoryID string) (domain.WorkStatus, error)
}

// TestCaseInput carries the editable fields of a test case.
type TestCaseInput struct {
	Title       string
	Description string
	Result      domain.TestResult
}

type TestCaseService interface {
	CreateTestCase(ctx context.Context, principal *domain.User, userStoryID string, input TestCaseInput) (*domain.TestCase, error)
	GetTestCase(ctx context.Context, principal *domain.User, id string) (*domain.TestCase, error)
	ListByUserStory(ctx context.Context, principal *domain.User, userStoryID string) ([]*domain.TestCase, error)
	UpdateTestCase(ctx context.Context, principal *domain.User, id string, input TestCaseInput) (*domain.TestCase, error)
	DeleteTestCase(ctx context.Context, principal *domain.User, id string) error
}
