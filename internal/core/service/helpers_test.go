package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
	"github.com/agileworks/backlog-api/internal/infrastructure/db/memory"
)

// testEnv wires every service over one in-memory store.
type testEnv struct {
	store     *memory.Store
	repos     Repositories
	access    *AccessService
	auth      *AuthService
	projects  *ProjectService
	backlogs  *ProductBacklogService
	sprints   *SprintBacklogService
	epics     *EpicService
	stories   *UserStoryService
	roles     *RoleService
	testCases *TestCaseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	log := zerolog.Nop()
	repos := Repositories{
		Users:           store.Users(),
		Projects:        store.Projects(),
		ProductBacklogs: store.ProductBacklogs(),
		SprintBacklogs:  store.SprintBacklogs(),
		Epics:           store.Epics(),
		UserStories:     store.UserStories(),
		Roles:           store.Roles(),
		TestCases:       store.TestCases(),
	}
	access := NewAccessService(repos.Users, repos.Projects, log)
	stories := NewUserStoryService(repos, store, access, log)

	return &testEnv{
		store:     store,
		repos:     repos,
		access:    access,
		auth:      NewAuthService(repos.Users, nil, "test-secret", time.Hour, log),
		projects:  NewProjectService(repos, store, access, log),
		backlogs:  NewProductBacklogService(repos, store, access, log),
		sprints:   NewSprintBacklogService(repos, store, access, log),
		epics:     NewEpicService(repos, store, access, log),
		stories:   stories,
		roles:     NewRoleService(repos.Roles, repos.UserStories, access, log),
		testCases: NewTestCaseService(repos, store, access, stories, log),
	}
}

func (e *testEnv) signup(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), ports.SignupInput{
		FullName: "Test User",
		Email:    email,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return u
}

// reload fetches the user again, as the principal middleware would on the
// next request.
func (e *testEnv) reload(t *testing.T, u *domain.User) *domain.User {
	t.Helper()
	fresh, err := e.access.ResolvePrincipal(context.Background(), u.ID)
	require.NoError(t, err)
	return fresh
}

func (e *testEnv) invite(t *testing.T, by *domain.User, email string, privilege domain.Privilege) *domain.User {
	t.Helper()
	u, err := e.projects.InviteUser(context.Background(), by, ports.InviteUserInput{
		FullName:  "Invited User",
		Email:     email,
		Password:  "s3cret-pass",
		Privilege: privilege,
	})
	require.NoError(t, err)
	return u
}

// fixture is an owner with a project, a product backlog and one role.
type fixture struct {
	owner   *domain.User
	project *domain.Project
	backlog *domain.ProductBacklog
	role    *domain.Role
}

func (e *testEnv) newFixture(t *testing.T, email string) fixture {
	t.Helper()
	ctx := context.Background()

	owner := e.signup(t, email)
	project, err := e.projects.CreateProject(ctx, owner, ports.ProjectInput{Name: "Shop", Description: "web shop"})
	require.NoError(t, err)
	backlog, err := e.backlogs.CreateProductBacklog(ctx, owner, ports.ProductBacklogInput{Name: "Main"})
	require.NoError(t, err)
	role, err := e.roles.CreateRole(ctx, owner, ports.RoleInput{Name: "Customer", Description: "buys things"})
	require.NoError(t, err)

	return fixture{owner: owner, project: project, backlog: backlog, role: role}
}

func (e *testEnv) newStory(t *testing.T, f fixture, title string) *domain.UserStory {
	t.Helper()
	st, err := e.stories.CreateUserStory(context.Background(), f.owner, ports.UserStoryInput{
		Title:  title,
		RoleID: f.role.ID,
	})
	require.NoError(t, err)
	return st
}
