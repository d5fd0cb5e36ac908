package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

func TestProductBacklogService_OnePerProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	_, err := env.backlogs.CreateProductBacklog(ctx, f.owner, ports.ProductBacklogInput{Name: "Another"})
	assert.ErrorIs(t, err, domain.ErrProductBacklogExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductBacklogService_RequiresProject(t *testing.T) {
	env := newTestEnv(t)
	loner := env.signup(t, "loner@example.com")

	_, err := env.backlogs.CreateProductBacklog(context.Background(), loner, ports.ProductBacklogInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNoProject)
}

func TestProductBacklogService_MemberReadsOwnerWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	dev := env.invite(t, f.owner, "dev@example.com", domain.PrivilegeDeveloper)

	got, err := env.backlogs.GetProductBacklog(ctx, dev)
	require.NoError(t, err)
	assert.Equal(t, f.backlog.ID, got.ID)

	_, err = env.backlogs.UpdateProductBacklog(ctx, dev, ports.ProductBacklogInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := env.backlogs.UpdateProductBacklog(ctx, f.owner, ports.ProductBacklogInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestProductBacklogService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	story := env.newStory(t, f, "checkout")
	epic, err := env.epics.CreateEpic(ctx, f.owner, ports.EpicInput{Name: "payments"})
	require.NoError(t, err)
	tc, err := env.testCases.CreateTestCase(ctx, f.owner, story.ID, ports.TestCaseInput{Title: "pays"})
	require.NoError(t, err)

	require.NoError(t, env.backlogs.DeleteProductBacklog(ctx, f.owner))

	_, err = env.repos.Epics.FindByID(ctx, epic.ID)
	assert.ErrorIs(t, err, domain.ErrEpicNotFound)
	_, err = env.repos.UserStories.FindByID(ctx, story.ID)
	assert.ErrorIs(t, err, domain.ErrUserStoryNotFound)
	_, err = env.repos.TestCases.FindByID(ctx, tc.ID)
	assert.ErrorIs(t, err, domain.ErrTestCaseNotFound)

	_, err = env.roles.GetRole(ctx, f.owner, f.role.ID)
	assert.NoError(t, err, "roles belong to the project, not the backlog")

	_, err = env.backlogs.CreateProductBacklog(ctx, f.owner, ports.ProductBacklogInput{Name: "Again"})
	assert.NoError(t, err)
}

func TestSprintBacklogService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	qa := env.invite(t, f.owner, "qa@example.com", domain.PrivilegeQualityAssurance)

	sprint, err := env.sprints.CreateSprintBacklog(ctx, f.owner, ports.SprintBacklogInput{Name: "S1", Description: "first"})
	require.NoError(t, err)
	_, err = env.sprints.CreateSprintBacklog(ctx, f.owner, ports.SprintBacklogInput{Name: "S2"})
	require.NoError(t, err)

	list, err := env.sprints.ListSprintBacklogs(ctx, qa)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	detail, err := env.sprints.GetSprintBacklog(ctx, qa, sprint.ID)
	require.NoError(t, err)
	assert.Equal(t, "S1", detail.SprintBacklog.Name)
	assert.Empty(t, detail.Epics)

	_, err = env.sprints.UpdateSprintBacklog(ctx, qa, sprint.ID, ports.SprintBacklogInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.sprints.GetSprintBacklog(ctx, f.owner, "missing")
	assert.ErrorIs(t, err, domain.ErrSprintBacklogNotFound)

	outsider := env.newFixture(t, "other@example.com")
	_, err = env.sprints.GetSprintBacklog(ctx, outsider.owner, sprint.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSprintBacklogService_DeleteUnlinksEpics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	epic, err := env.epics.CreateEpic(ctx, f.owner, ports.EpicInput{Name: "payments"})
	require.NoError(t, err)
	story := env.newStory(t, f, "checkout")
	_, err = env.stories.LinkToEpic(ctx, f.owner, story.ID, epic.ID)
	require.NoError(t, err)
	sprint, err := env.sprints.CreateSprintBacklog(ctx, f.owner, ports.SprintBacklogInput{Name: "S1"})
	require.NoError(t, err)
	_, err = env.epics.LinkToSprintBacklog(ctx, f.owner, sprint.ID, epic.ID)
	require.NoError(t, err)

	require.NoError(t, env.sprints.DeleteSprintBacklog(ctx, f.owner, sprint.ID))

	got, err := env.repos.Epics.FindByID(ctx, epic.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLinked())
}

func TestRoleService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	t.Run("duplicate name", func(t *testing.T) {
		_, err := env.roles.CreateRole(ctx, f.owner, ports.RoleInput{Name: " Customer "})
		assert.ErrorIs(t, err, domain.ErrRoleExists)
	})

	t.Run("rename", func(t *testing.T) {
		admin, err := env.roles.CreateRole(ctx, f.owner, ports.RoleInput{Name: "Admin"})
		require.NoError(t, err)

		_, err = env.roles.UpdateRole(ctx, f.owner, admin.ID, ports.RoleInput{Name: "Customer"})
		assert.ErrorIs(t, err, domain.ErrRoleExists)

		same, err := env.roles.UpdateRole(ctx, f.owner, admin.ID, ports.RoleInput{Name: "Admin", Description: "runs the shop"})
		require.NoError(t, err)
		assert.Equal(t, "runs the shop", same.Description)
	})

	t.Run("in use", func(t *testing.T) {
		env.newStory(t, f, "browse")
		err := env.roles.DeleteRole(ctx, f.owner, f.role.ID)
		assert.ErrorIs(t, err, domain.ErrRoleInUse)
	})

	t.Run("list", func(t *testing.T) {
		roles, err := env.roles.ListRoles(ctx, f.owner)
		require.NoError(t, err)
		assert.Len(t, roles, 2)
	})
}
