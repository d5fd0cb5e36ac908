package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// Repositories bundles every repository port. Services keep only the ones
// they need; the cascade helpers walk the whole tree.
type Repositories struct {
	Users           ports.UserRepository
	Projects        ports.ProjectRepository
	ProductBacklogs ports.ProductBacklogRepository
	SprintBacklogs  ports.SprintBacklogRepository
	Epics           ports.EpicRepository
	UserStories     ports.UserStoryRepository
	Roles           ports.RoleRepository
	TestCases       ports.TestCaseRepository
}

// cascade deletes an entity together with everything it owns. Callers run
// it inside a transaction.
type cascade struct {
	repos Repositories
}

func (c cascade) deleteProject(ctx context.Context, projectID string) error {
	backlog, err := c.repos.ProductBacklogs.FindByProject(ctx, projectID)
	switch {
	case err == nil:
		if err := c.deleteProductBacklog(ctx, backlog.ID); err != nil {
			return err
		}
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find product backlog: %w", err)
	}

	if err := c.repos.SprintBacklogs.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete sprint backlogs: %w", err)
	}
	if err := c.repos.Roles.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	if err := c.repos.Users.DetachProject(ctx, projectID); err != nil {
		return fmt.Errorf("detach members: %w", err)
	}
	return c.repos.Projects.Delete(ctx, projectID)
}

func (c cascade) deleteProductBacklog(ctx context.Context, backlogID string) error {
	stories, err := c.repos.UserStories.ListByProductBacklog(ctx, backlogID)
	if err != nil {
		return fmt.Errorf("list user stories: %w", err)
	}
	for _, st := range stories {
		if err := c.repos.TestCases.DeleteByUserStory(ctx, st.ID); err != nil {
			return fmt.Errorf("delete test cases: %w", err)
		}
	}
	if err := c.repos.UserStories.DeleteByProductBacklog(ctx, backlogID); err != nil {
		return fmt.Errorf("delete user stories: %w", err)
	}
	if err := c.repos.Epics.DeleteByProductBacklog(ctx, backlogID); err != nil {
		return fmt.Errorf("delete epics: %w", err)
	}
	return c.repos.ProductBacklogs.Delete(ctx, backlogID)
}

func (c cascade) deleteSprintBacklog(ctx context.Context, sprintID string) error {
	if err := c.repos.Epics.UnlinkSprintBacklog(ctx, sprintID); err != nil {
		return fmt.Errorf("unlink epics: %w", err)
	}
	return c.repos.SprintBacklogs.Delete(ctx, sprintID)
}

func (c cascade) deleteEpic(ctx context.Context, epicID string) error {
	if err := c.repos.UserStories.UnlinkEpic(ctx, epicID); err != nil {
		return fmt.Errorf("unlink user stories: %w", err)
	}
	return c.repos.Epics.Delete(ctx, epicID)
}

func (c cascade) deleteUserStory(ctx context.Context, storyID string) error {
	if err := c.repos.TestCases.DeleteByUserStory(ctx, storyID); err != nil {
		return fmt.Errorf("delete test cases: %w", err)
	}
	return c.repos.UserStories.Delete(ctx, storyID)
}
