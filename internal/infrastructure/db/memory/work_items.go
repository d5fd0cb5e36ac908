package memory

import (
	"context"
	"time"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// EpicRepository implements ports.EpicRepository.
type EpicRepository struct{ s *Store }

var _ ports.EpicRepository = (*EpicRepository)(nil)

func (s *Store) Epics() *EpicRepository { return &EpicRepository{s: s} }

func cloneEpic(e domain.Epic) *domain.Epic {
	if e.DueDate != nil {
		due := *e.DueDate
		e.DueDate = &due
	}
	return &e
}

func (r *EpicRepository) Create(ctx context.Context, e *domain.Epic) error {
	defer r.s.lockWrite(ctx)()

	e.ID = newID()
	r.s.data.epics[e.ID] = *cloneEpic(*e)
	return nil
}

func (r *EpicRepository) FindByID(_ context.Context, id string) (*domain.Epic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.data.epics[id]
	if !ok {
		return nil, domain.ErrEpicNotFound
	}
	return cloneEpic(e), nil
}

func (r *EpicRepository) ListByProductBacklog(_ context.Context, backlogID string) ([]*domain.Epic, error) {
	return r.list(func(e domain.Epic) bool { return e.ProductBacklogID == backlogID }), nil
}

func (r *EpicRepository) ListBySprintBacklog(_ context.Context, sprintID string) ([]*domain.Epic, error) {
	return r.list(func(e domain.Epic) bool { return e.SprintBacklogID == sprintID }), nil
}

func (r *EpicRepository) list(match func(domain.Epic) bool) []*domain.Epic {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Epic, 0)
	for _, e := range r.s.data.epics {
		if match(e) {
			out = append(out, cloneEpic(e))
		}
	}
	return byCreation(out,
		func(e *domain.Epic) time.Time { return e.CreatedAt },
		func(e *domain.Epic) string { return e.ID })
}

func (r *EpicRepository) Update(ctx context.Context, e *domain.Epic) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.epics[e.ID]; !ok {
		return domain.ErrEpicNotFound
	}
	r.s.data.epics[e.ID] = *cloneEpic(*e)
	return nil
}

func (r *EpicRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.epics[id]; !ok {
		return domain.ErrEpicNotFound
	}
	delete(r.s.data.epics, id)
	return nil
}

func (r *EpicRepository) DeleteByProductBacklog(ctx context.Context, backlogID string) error {
	defer r.s.lockWrite(ctx)()

	for id, e := range r.s.data.epics {
		if e.ProductBacklogID == backlogID {
			delete(r.s.data.epics, id)
		}
	}
	return nil
}

func (r *EpicRepository) UnlinkSprintBacklog(ctx context.Context, sprintID string) error {
	defer r.s.lockWrite(ctx)()

	for id, e := range r.s.data.epics {
		if e.SprintBacklogID == sprintID {
			e.SprintBacklogID = ""
			r.s.data.epics[id] = e
		}
	}
	return nil
}

// UserStoryRepository implements ports.UserStoryRepository.
type UserStoryRepository struct{ s *Store }

var _ ports.UserStoryRepository = (*UserStoryRepository)(nil)

func (s *Store) UserStories() *UserStoryRepository { return &UserStoryRepository{s: s} }

func (r *UserStoryRepository) Create(ctx context.Context, st *domain.UserStory) error {
	defer r.s.lockWrite(ctx)()

	st.ID = newID()
	r.s.data.userStories[st.ID] = *st
	return nil
}

func (r *UserStoryRepository) FindByID(_ context.Context, id string) (*domain.UserStory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.data.userStories[id]
	if !ok {
		return nil, domain.ErrUserStoryNotFound
	}
	return &st, nil
}

func (r *UserStoryRepository) ListByProductBacklog(_ context.Context, backlogID string) ([]*domain.UserStory, error) {
	return r.list(func(st domain.UserStory) bool { return st.ProductBacklogID == backlogID }), nil
}

func (r *UserStoryRepository) ListByRole(_ context.Context, roleID string) ([]*domain.UserStory, error) {
	return r.list(func(st domain.UserStory) bool { return st.RoleID == roleID }), nil
}

func (r *UserStoryRepository) ListByEpic(_ context.Context, epicID string) ([]*domain.UserStory, error) {
	return r.list(func(st domain.UserStory) bool { return st.EpicID == epicID }), nil
}

func (r *UserStoryRepository) CountByEpic(_ context.Context, epicID string) (int64, error) {
	return int64(len(r.list(func(st domain.UserStory) bool { return st.EpicID == epicID }))), nil
}

func (r *UserStoryRepository) CountByRole(_ context.Context, roleID string) (int64, error) {
	return int64(len(r.list(func(st domain.UserStory) bool { return st.RoleID == roleID }))), nil
}

func (r *UserStoryRepository) list(match func(domain.UserStory) bool) []*domain.UserStory {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.UserStory, 0)
	for _, st := range r.s.data.userStories {
		if match(st) {
			st := st
			out = append(out, &st)
		}
	}
	return byCreation(out,
		func(st *domain.UserStory) time.Time { return st.CreatedAt },
		func(st *domain.UserStory) string { return st.ID })
}

func (r *UserStoryRepository) Update(ctx context.Context, st *domain.UserStory) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.userStories[st.ID]; !ok {
		return domain.ErrUserStoryNotFound
	}
	r.s.data.userStories[st.ID] = *st
	return nil
}

func (r *UserStoryRepository) UpdateStatus(ctx context.Context, id string, status domain.WorkStatus) error {
	defer r.s.lockWrite(ctx)()

	st, ok := r.s.data.userStories[id]
	if !ok {
		return domain.ErrUserStoryNotFound
	}
	st.Status = status
	st.UpdatedAt = time.Now().UTC()
	r.s.data.userStories[id] = st
	return nil
}

func (r *UserStoryRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.userStories[id]; !ok {
		return domain.ErrUserStoryNotFound
	}
	delete(r.s.data.userStories, id)
	return nil
}

func (r *UserStoryRepository) DeleteByProductBacklog(ctx context.Context, backlogID string) error {
	defer r.s.lockWrite(ctx)()

	for id, st := range r.s.data.userStories {
		if st.ProductBacklogID == backlogID {
			delete(r.s.data.userStories, id)
		}
	}
	return nil
}

func (r *UserStoryRepository) UnlinkEpic(ctx context.Context, epicID string) error {
	defer r.s.lockWrite(ctx)()

	for id, st := range r.s.data.userStories {
		if st.EpicID == epicID {
			st.EpicID = ""
			r.s.data.userStories[id] = st
		}
	}
	return nil
}

// TestCaseRepository implements ports.TestCaseRepository.
type TestCaseRepository struct{ s *Store }

var _ ports.TestCaseRepository = (*TestCaseRepository)(nil)

func (s *Store) TestCases() *TestCaseRepository { return &TestCaseRepository{s: s} }

func (r *TestCaseRepository) Create(ctx context.Context, tc *domain.TestCase) error {
	defer r.s.lockWrite(ctx)()

	tc.ID = newID()
	r.s.data.testCases[tc.ID] = *tc
	return nil
}

func (r *TestCaseRepository) FindByID(_ context.Context, id string) (*domain.TestCase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tc, ok := r.s.data.testCases[id]
	if !ok {
		return nil, domain.ErrTestCaseNotFound
	}
	return &tc, nil
}

func (r *TestCaseRepository) ListByUserStory(_ context.Context, storyID string) ([]*domain.TestCase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.TestCase, 0)
	for _, tc := range r.s.data.testCases {
		if tc.UserStoryID == storyID {
			tc := tc
			out = append(out, &tc)
		}
	}
	return byCreation(out,
		func(tc *domain.TestCase) time.Time { return tc.CreatedAt },
		func(tc *domain.TestCase) string { return tc.ID }), nil
}

func (r *TestCaseRepository) Update(ctx context.Context, tc *domain.TestCase) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.testCases[tc.ID]; !ok {
		return domain.ErrTestCaseNotFound
	}
	r.s.data.testCases[tc.ID] = *tc
	return nil
}

func (r *TestCaseRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.testCases[id]; !ok {
		return domain.ErrTestCaseNotFound
	}
	delete(r.s.data.testCases, id)
	return nil
}

func (r *TestCaseRepository) DeleteByUserStory(ctx context.Context, storyID string) error {
	defer r.s.lockWrite(ctx)()

	for id, tc := range r.s.data.testCases {
		if tc.UserStoryID == storyID {
			delete(r.s.data.testCases, id)
		}
	}
	return nil
}
