package memory

import (
	"context"
	"strings"
	"time"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct{ s *Store }

var _ ports.UserRepository = (*UserRepository)(nil)

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	defer r.s.lockWrite(ctx)()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}

	u := *user
	u.ID = newID()
	r.s.data.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ListByProject(_ context.Context, projectID string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0)
	for _, u := range r.s.data.users {
		if u.ProjectID == projectID {
			u := u
			out = append(out, &u)
		}
	}
	return byCreation(out,
		func(u *domain.User) time.Time { return u.CreatedAt },
		func(u *domain.User) string { return u.ID }), nil
}

func (r *UserRepository) SetProject(ctx context.Context, userID, projectID string) error {
	defer r.s.lockWrite(ctx)()

	u, ok := r.s.data.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ProjectID = projectID
	u.UpdatedAt = time.Now().UTC()
	r.s.data.users[userID] = u
	return nil
}

func (r *UserRepository) DetachProject(ctx context.Context, projectID string) error {
	defer r.s.lockWrite(ctx)()

	now := time.Now().UTC()
	for id, u := range r.s.data.users {
		if u.ProjectID == projectID {
			u.ProjectID = ""
			u.UpdatedAt = now
			r.s.data.users[id] = u
		}
	}
	return nil
}
