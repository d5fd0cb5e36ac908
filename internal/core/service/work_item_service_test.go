package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

func TestEpicService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	epic, err := env.epics.CreateEpic(ctx, f.owner, ports.EpicInput{Name: "payments", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, epic.Priority)
	assert.Equal(t, domain.StatusNotStarted, epic.Status)
	assert.Equal(t, f.backlog.ID, epic.ProductBacklogID)
	assert.False(t, epic.IsLinked())

	list, err := env.epics.ListEpics(ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEpicService_CreateWithoutBacklog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "owner@example.com")
	_, err := env.projects.CreateProject(ctx, owner, ports.ProjectInput{Name: "Empty"})
	require.NoError(t, err)

	_, err = env.epics.CreateEpic(ctx, owner, ports.EpicInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrProductBacklogNotFound)
}

func TestEpicService_LinkToSprintBacklog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	epic, err := env.epics.CreateEpic(ctx, f.owner, ports.EpicInput{Name: "payments", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	sprint, err := env.sprints.CreateSprintBacklog(ctx, f.owner, ports.SprintBacklogInput{Name: "S1"})
	require.NoError(t, err)

	_, err = env.epics.LinkToSprintBacklog(ctx, f.owner, sprint.ID, epic.ID)
	assert.ErrorIs(t, err, domain.ErrEpicHasNoUserStories)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	story := env.newStory(t, f, "checkout")
	_, err = env.stories.LinkToEpic(ctx, f.owner, story.ID, epic.ID)
	require.NoError(t, err)

	_, err = env.epics.LinkToSprintBacklog(ctx, f.owner, "missing", epic.ID)
	assert.ErrorIs(t, err, domain.ErrSprintBacklogNotFound)

	linked, err := env.epics.LinkToSprintBacklog(ctx, f.owner, sprint.ID, epic.ID)
	require.NoError(t, err)
	assert.Equal(t, sprint.ID, linked.SprintBacklogID)

	_, err = env.epics.LinkToSprintBacklog(ctx, f.owner, sprint.ID, epic.ID)
	assert.ErrorIs(t, err, domain.ErrEpicAlreadyLinked)

	detail, err := env.sprints.GetSprintBacklog(ctx, f.owner, sprint.ID)
	require.NoError(t, err)
	require.Len(t, detail.Epics, 1)
	assert.Equal(t, epic.ID, detail.Epics[0].ID)

	unlinked, err := env.epics.Unlink(ctx, f.owner, epic.ID)
	require.NoError(t, err)
	assert.False(t, unlinked.IsLinked())
}

func TestEpicService_LinkAcrossProjectsForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.newFixture(t, "a@example.com")
	b := env.newFixture(t, "b@example.com")

	epic, err := env.epics.CreateEpic(ctx, a.owner, ports.EpicInput{Name: "payments"})
	require.NoError(t, err)
	sprint, err := env.sprints.CreateSprintBacklog(ctx, b.owner, ports.SprintBacklogInput{Name: "S1"})
	require.NoError(t, err)

	_, err = env.epics.LinkToSprintBacklog(ctx, a.owner, sprint.ID, epic.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEpicService_DeleteKeepsStories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	epic, err := env.epics.CreateEpic(ctx, f.owner, ports.EpicInput{Name: "payments"})
	require.NoError(t, err)
	story := env.newStory(t, f, "checkout")
	_, err = env.stories.LinkToEpic(ctx, f.owner, story.ID, epic.ID)
	require.NoError(t, err)

	detail, err := env.epics.GetEpic(ctx, f.owner, epic.ID)
	require.NoError(t, err)
	assert.Len(t, detail.UserStories, 1)

	require.NoError(t, env.epics.DeleteEpic(ctx, f.owner, epic.ID))

	got, err := env.stories.GetUserStory(ctx, f.owner, story.ID)
	require.NoError(t, err)
	assert.False(t, got.HasEpic())
}

func TestUserStoryService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	other := env.newFixture(t, "other@example.com")

	story := env.newStory(t, f, "checkout")
	assert.Equal(t, domain.StatusNotStarted, story.Status)
	assert.Equal(t, domain.PriorityMedium, story.Priority)
	assert.Equal(t, f.role.ID, story.RoleID)

	_, err := env.stories.CreateUserStory(ctx, f.owner, ports.UserStoryInput{Title: "x", RoleID: other.role.ID})
	assert.ErrorIs(t, err, domain.ErrRoleProjectMismatch)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.stories.CreateUserStory(ctx, f.owner, ports.UserStoryInput{Title: "x", RoleID: "missing"})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	byRole, err := env.stories.ListByRole(ctx, f.owner, f.role.ID)
	require.NoError(t, err)
	assert.Len(t, byRole, 1)

	_, err = env.stories.ListByRole(ctx, other.owner, f.role.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserStoryService_UpdatePrivileges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	dev := env.invite(t, f.owner, "dev@example.com", domain.PrivilegeDeveloper)
	qa := env.invite(t, f.owner, "qa@example.com", domain.PrivilegeQualityAssurance)
	story := env.newStory(t, f, "checkout")

	updated, err := env.stories.UpdateUserStory(ctx, dev, story.ID, ports.UserStoryUpdateInput{
		Title:    "checkout v2",
		Priority: domain.PriorityCritical,
	})
	require.NoError(t, err)
	assert.Equal(t, "checkout v2", updated.Title)
	assert.Equal(t, domain.PriorityCritical, updated.Priority)
	assert.Equal(t, domain.StatusNotStarted, updated.Status)

	_, err = env.stories.UpdateUserStory(ctx, qa, story.ID, ports.UserStoryUpdateInput{Title: "nope"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = env.stories.DeleteUserStory(ctx, dev, story.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserStoryService_LinkToEpic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	other := env.newFixture(t, "other@example.com")

	epic, err := env.epics.CreateEpic(ctx, f.owner, ports.EpicInput{Name: "payments"})
	require.NoError(t, err)
	story := env.newStory(t, f, "checkout")

	linked, err := env.stories.LinkToEpic(ctx, f.owner, story.ID, epic.ID)
	require.NoError(t, err)
	assert.Equal(t, epic.ID, linked.EpicID)

	_, err = env.stories.LinkToEpic(ctx, f.owner, story.ID, epic.ID)
	assert.ErrorIs(t, err, domain.ErrUserStoryAlreadyLinked)

	byEpic, err := env.stories.ListByEpic(ctx, f.owner, epic.ID)
	require.NoError(t, err)
	assert.Len(t, byEpic, 1)

	otherEpic, err := env.epics.CreateEpic(ctx, other.owner, ports.EpicInput{Name: "elsewhere"})
	require.NoError(t, err)
	fresh := env.newStory(t, f, "refunds")
	_, err = env.stories.LinkToEpic(ctx, f.owner, fresh.ID, otherEpic.ID)
	assert.ErrorIs(t, err, domain.ErrBacklogMismatch)

	unlinked, err := env.stories.UnlinkFromEpic(ctx, f.owner, story.ID)
	require.NoError(t, err)
	assert.False(t, unlinked.HasEpic())
}

func TestTestCaseService_DrivesStoryStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")
	qa := env.invite(t, f.owner, "qa@example.com", domain.PrivilegeQualityAssurance)
	sm := env.invite(t, f.owner, "sm@example.com", domain.PrivilegeScrumMaster)
	story := env.newStory(t, f, "checkout")

	status := func() domain.WorkStatus {
		t.Helper()
		st, err := env.stories.GetUserStory(ctx, f.owner, story.ID)
		require.NoError(t, err)
		return st.Status
	}

	failing, err := env.testCases.CreateTestCase(ctx, qa, story.ID, ports.TestCaseInput{Title: "pays", Result: domain.ResultFail})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, status())

	_, err = env.testCases.UpdateTestCase(ctx, qa, failing.ID, ports.TestCaseInput{Title: "pays", Result: domain.ResultPass})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, status())

	pending, err := env.testCases.CreateTestCase(ctx, qa, story.ID, ports.TestCaseInput{Title: "refunds"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, status())

	_, err = env.testCases.CreateTestCase(ctx, sm, story.ID, ports.TestCaseInput{Title: "nope"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = env.testCases.DeleteTestCase(ctx, qa, pending.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, env.testCases.DeleteTestCase(ctx, f.owner, pending.ID))
	assert.Equal(t, domain.StatusDone, status())

	require.NoError(t, env.testCases.DeleteTestCase(ctx, f.owner, failing.ID))
	assert.Equal(t, domain.StatusNotStarted, status())

	cases, err := env.testCases.ListByUserStory(ctx, qa, story.ID)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestTestCaseService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.newFixture(t, "owner@example.com")

	_, err := env.testCases.CreateTestCase(ctx, f.owner, "missing", ports.TestCaseInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrUserStoryNotFound)

	_, err = env.testCases.GetTestCase(ctx, f.owner, "missing")
	assert.ErrorIs(t, err, domain.ErrTestCaseNotFound)
}
