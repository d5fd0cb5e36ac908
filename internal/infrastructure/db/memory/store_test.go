package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

func TestUsers_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	created, err := users.Create(ctx, &domain.User{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = users.Create(ctx, &domain.User{Email: "ANN@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUsers_SetAndDetachProject(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	a, _ := users.Create(ctx, &domain.User{Email: "a@example.com"})
	b, _ := users.Create(ctx, &domain.User{Email: "b@example.com"})
	require.NoError(t, users.SetProject(ctx, a.ID, "p1"))
	require.NoError(t, users.SetProject(ctx, b.ID, "p1"))

	members, err := users.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, users.DetachProject(ctx, "p1"))
	members, _ = users.ListByProject(ctx, "p1")
	assert.Empty(t, members)

	err = users.SetProject(ctx, "missing", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoles_NameUniquePerProject(t *testing.T) {
	ctx := context.Background()
	roles := New().Roles()

	require.NoError(t, roles.Create(ctx, &domain.Role{Name: "Admin", ProjectID: "p1"}))
	require.NoError(t, roles.Create(ctx, &domain.Role{Name: "Admin", ProjectID: "p2"}))
	err := roles.Create(ctx, &domain.Role{Name: "Admin", ProjectID: "p1"})
	assert.ErrorIs(t, err, domain.ErrRoleExists)
}

func TestProductBacklogs_OnePerProject(t *testing.T) {
	ctx := context.Background()
	backlogs := New().ProductBacklogs()

	require.NoError(t, backlogs.Create(ctx, &domain.ProductBacklog{Name: "main", ProjectID: "p1"}))
	err := backlogs.Create(ctx, &domain.ProductBacklog{Name: "other", ProjectID: "p1"})
	assert.ErrorIs(t, err, domain.ErrProductBacklogExists)

	_, err = backlogs.FindByProject(ctx, "p2")
	assert.ErrorIs(t, err, domain.ErrProductBacklogNotFound)
}

func TestEpics_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	epics := New().Epics()

	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &domain.Epic{Name: "checkout", ProductBacklogID: "b1", DueDate: &due}
	require.NoError(t, epics.Create(ctx, e))

	got, err := epics.FindByID(ctx, e.ID)
	require.NoError(t, err)
	got.Name = "changed"
	*got.DueDate = due.Add(time.Hour)

	again, _ := epics.FindByID(ctx, e.ID)
	assert.Equal(t, "checkout", again.Name)
	assert.True(t, again.DueDate.Equal(due))
}

func TestUserStories_UnlinkEpicAndCount(t *testing.T) {
	ctx := context.Background()
	stories := New().UserStories()

	for i := 0; i < 3; i++ {
		require.NoError(t, stories.Create(ctx, &domain.UserStory{ProductBacklogID: "b1", EpicID: "e1", RoleID: "r1"}))
	}

	n, err := stories.CountByEpic(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, stories.UnlinkEpic(ctx, "e1"))
	n, _ = stories.CountByEpic(ctx, "e1")
	assert.Zero(t, n)

	n, _ = stories.CountByRole(ctx, "r1")
	assert.EqualValues(t, 3, n)
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	projects := store.Projects()

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := projects.Create(ctx, &domain.Project{Name: "x", OwnerID: "u1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p := &domain.Project{Name: "x", OwnerID: "u1"}
	require.NoError(t, projects.Create(ctx, p), "rolled back project must not block the owner")

	err = store.WithinTransaction(ctx, func(ctx context.Context) error {
		return projects.Update(ctx, &domain.Project{ID: p.ID, Name: "y", OwnerID: "u1"})
	})
	require.NoError(t, err)
	got, _ := projects.FindByID(ctx, p.ID)
	assert.Equal(t, "y", got.Name)
}

func TestWithinTransaction_RollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := New()
	roles := store.Roles()

	inside := make(chan struct{})
	release := make(chan struct{})
	txErr := make(chan error, 1)
	boom := errors.New("boom")

	go func() {
		txErr <- store.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := store.Projects().Create(ctx, &domain.Project{Name: "tx", OwnerID: "u1"}); err != nil {
				return err
			}
			close(inside)
			<-release
			return boom
		})
	}()
	<-inside

	role := &domain.Role{Name: "Customer", ProjectID: "p1"}
	written := make(chan error, 1)
	go func() { written <- roles.Create(ctx, role) }()

	select {
	case err := <-written:
		t.Fatalf("write outside the transaction finished before it ended: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.ErrorIs(t, <-txErr, boom)
	require.NoError(t, <-written)

	got, err := roles.FindByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer", got.Name)

	p := &domain.Project{Name: "again", OwnerID: "u1"}
	assert.NoError(t, store.Projects().Create(ctx, p), "rolled back project must be gone")
}

func TestWithinTransaction_NestedCallJoins(t *testing.T) {
	ctx := context.Background()
	store := New()
	boom := errors.New("boom")

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		inner := store.WithinTransaction(ctx, func(ctx context.Context) error {
			return store.Roles().Create(ctx, &domain.Role{Name: "Admin", ProjectID: "p1"})
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := store.Roles().ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, list, "inner writes roll back with the outer transaction")
}
