package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// UserStoryService manages user stories. A story's status is never written
// by clients; CheckUserStoryStatus derives it from the story's test cases.
type UserStoryService struct {
	repos  Repositories
	tx     ports.Transactor
	access *AccessService
	log    zerolog.Logger
}

func NewUserStoryService(repos Repositories, tx ports.Transactor, access *AccessService, log zerolog.Logger) *UserStoryService {
	return &UserStoryService{repos: repos, tx: tx, access: access, log: log}
}

// CreateUserStory adds a story to the principal's product backlog, written
// for a role of the same project.
func (s *UserStoryService) CreateUserStory(ctx context.Context, principal *domain.User, in ports.UserStoryInput) (*domain.UserStory, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	backlog, err := s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	role, err := s.repos.Roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if role.ProjectID != backlog.ProjectID {
		return nil, domain.ErrRoleProjectMismatch
	}

	now := time.Now().UTC()
	story := &domain.UserStory{
		Title:            in.Title,
		Description:      in.Description,
		Priority:         orPriority(in.Priority, domain.PriorityMedium),
		Status:           domain.StatusNotStarted,
		ProductBacklogID: backlog.ID,
		RoleID:           role.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repos.UserStories.Create(ctx, story); err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityUserStory).Inc()
	s.log.Info().
		Str("user_story_id", story.ID).
		Str("product_backlog_id", backlog.ID).
		Str("role_id", role.ID).
		Msg("user story created")
	return story, nil
}

func (s *UserStoryService) GetUserStory(ctx context.Context, principal *domain.User, id string) (*domain.UserStory, error) {
	story, projectID, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *UserStoryService) ListUserStories(ctx context.Context, principal *domain.User) ([]*domain.UserStory, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	backlog, err := s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return s.repos.UserStories.ListByProductBacklog(ctx, backlog.ID)
}

func (s *UserStoryService) ListByRole(ctx context.Context, principal *domain.User, roleID string) ([]*domain.UserStory, error) {
	role, err := s.repos.Roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, role.ProjectID); err != nil {
		return nil, err
	}
	return s.repos.UserStories.ListByRole(ctx, role.ID)
}

func (s *UserStoryService) ListByEpic(ctx context.Context, principal *domain.User, epicID string) ([]*domain.UserStory, error) {
	epic, err := s.repos.Epics.FindByID(ctx, epicID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.backlogProject(ctx, epic.ProductBacklogID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}
	return s.repos.UserStories.ListByEpic(ctx, epic.ID)
}

// UpdateUserStory is open to the owner and to developers of the project.
func (s *UserStoryService) UpdateUserStory(ctx context.Context, principal *domain.User, id string, in ports.UserStoryUpdateInput) (*domain.UserStory, error) {
	story, projectID, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckProjectAccess(ctx, principal, projectID, domain.PrivilegeDeveloper); err != nil {
		return nil, err
	}

	story.Title = in.Title
	story.Description = in.Description
	story.Priority = orPriority(in.Priority, story.Priority)
	story.UpdatedAt = time.Now().UTC()
	if err := s.repos.UserStories.Update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// DeleteUserStory removes the story and its test cases.
func (s *UserStoryService) DeleteUserStory(ctx context.Context, principal *domain.User, id string) error {
	story, projectID, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return cascade{repos: s.repos}.deleteUserStory(ctx, story.ID)
	})
	if err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntityUserStory).Inc()
	s.log.Info().Str("user_story_id", story.ID).Msg("user story deleted")
	return nil
}

// LinkToEpic attaches a story to an epic of the same product backlog.
func (s *UserStoryService) LinkToEpic(ctx context.Context, principal *domain.User, userStoryID, epicID string) (*domain.UserStory, error) {
	story, projectID, err := s.load(ctx, userStoryID)
	if err != nil {
		return nil, err
	}
	epic, err := s.repos.Epics.FindByID(ctx, epicID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}
	if story.HasEpic() {
		return nil, domain.ErrUserStoryAlreadyLinked
	}
	if story.ProductBacklogID != epic.ProductBacklogID {
		return nil, domain.ErrBacklogMismatch
	}

	story.EpicID = epic.ID
	story.UpdatedAt = time.Now().UTC()
	if err := s.repos.UserStories.Update(ctx, story); err != nil {
		return nil, err
	}

	metrics.LinksTotal.WithLabelValues("story_epic", "link").Inc()
	s.log.Info().Str("user_story_id", story.ID).Str("epic_id", epic.ID).Msg("user story linked to epic")
	return story, nil
}

func (s *UserStoryService) UnlinkFromEpic(ctx context.Context, principal *domain.User, userStoryID string) (*domain.UserStory, error) {
	story, projectID, err := s.load(ctx, userStoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}

	story.EpicID = ""
	story.UpdatedAt = time.Now().UTC()
	if err := s.repos.UserStories.Update(ctx, story); err != nil {
		return nil, err
	}

	metrics.LinksTotal.WithLabelValues("story_epic", "unlink").Inc()
	s.log.Info().Str("user_story_id", story.ID).Msg("user story unlinked from epic")
	return story, nil
}

// CheckUserStoryStatus recomputes the story's status from its test cases and
// persists it when it changed.
func (s *UserStoryService) CheckUserStoryStatus(ctx context.Context, userStoryID string) (domain.WorkStatus, error) {
	story, err := s.repos.UserStories.FindByID(ctx, userStoryID)
	if err != nil {
		return "", err
	}
	cases, err := s.repos.TestCases.ListByUserStory(ctx, story.ID)
	if err != nil {
		return "", err
	}

	status := domain.DeriveStoryStatus(cases)
	if status == story.Status {
		return status, nil
	}
	if err := s.repos.UserStories.UpdateStatus(ctx, story.ID, status); err != nil {
		return "", err
	}

	metrics.UserStoryStatusTotal.WithLabelValues(string(status)).Inc()
	s.log.Info().
		Str("user_story_id", story.ID).
		Str("from", string(story.Status)).
		Str("to", string(status)).
		Msg("user story status changed")
	return status, nil
}

// load fetches a story and the ID of the project owning it.
func (s *UserStoryService) load(ctx context.Context, id string) (*domain.UserStory, string, error) {
	story, err := s.repos.UserStories.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	projectID, err := s.backlogProject(ctx, story.ProductBacklogID)
	if err != nil {
		return nil, "", err
	}
	return story, projectID, nil
}

func (s *UserStoryService) backlogProject(ctx context.Context, backlogID string) (string, error) {
	backlog, err := s.repos.ProductBacklogs.FindByID(ctx, backlogID)
	if err != nil {
		return "", err
	}
	return backlog.ProjectID, nil
}
