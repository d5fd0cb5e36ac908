package memory

import (
	"context"
	"time"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// ProjectRepository implements ports.ProjectRepository.
type ProjectRepository struct{ s *Store }

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	defer r.s.lockWrite(ctx)()

	for _, existing := range r.s.data.projects {
		if existing.OwnerID == p.OwnerID {
			return domain.ErrAlreadyInProject
		}
	}
	p.ID = newID()
	r.s.data.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.data.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	r.s.data.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.s.data.projects, id)
	return nil
}

// RoleRepository implements ports.RoleRepository.
type RoleRepository struct{ s *Store }

var _ ports.RoleRepository = (*RoleRepository)(nil)

func (s *Store) Roles() *RoleRepository { return &RoleRepository{s: s} }

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	defer r.s.lockWrite(ctx)()

	if r.nameTakenLocked(role.ProjectID, role.Name, "") {
		return domain.ErrRoleExists
	}
	role.ID = newID()
	r.s.data.roles[role.ID] = *role
	return nil
}

func (r *RoleRepository) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.data.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (r *RoleRepository) FindByName(_ context.Context, projectID, name string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.data.roles {
		if role.ProjectID == projectID && role.Name == name {
			return &role, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *RoleRepository) ListByProject(_ context.Context, projectID string) ([]*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Role, 0)
	for _, role := range r.s.data.roles {
		if role.ProjectID == projectID {
			role := role
			out = append(out, &role)
		}
	}
	return byCreation(out,
		func(r *domain.Role) time.Time { return r.CreatedAt },
		func(r *domain.Role) string { return r.ID }), nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.roles[role.ID]; !ok {
		return domain.ErrRoleNotFound
	}
	if r.nameTakenLocked(role.ProjectID, role.Name, role.ID) {
		return domain.ErrRoleExists
	}
	r.s.data.roles[role.ID] = *role
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.s.data.roles, id)
	return nil
}

func (r *RoleRepository) DeleteByProject(ctx context.Context, projectID string) error {
	defer r.s.lockWrite(ctx)()

	for id, role := range r.s.data.roles {
		if role.ProjectID == projectID {
			delete(r.s.data.roles, id)
		}
	}
	return nil
}

func (r *RoleRepository) nameTakenLocked(projectID, name, selfID string) bool {
	for _, role := range r.s.data.roles {
		if role.ProjectID == projectID && role.Name == name && role.ID != selfID {
			return true
		}
	}
	return false
}
