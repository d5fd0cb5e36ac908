package memory

import (
	"context"
	"time"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// ProductBacklogRepository implements ports.ProductBacklogRepository.
type ProductBacklogRepository struct{ s *Store }

var _ ports.ProductBacklogRepository = (*ProductBacklogRepository)(nil)

func (s *Store) ProductBacklogs() *ProductBacklogRepository { return &ProductBacklogRepository{s: s} }

func (r *ProductBacklogRepository) Create(ctx context.Context, b *domain.ProductBacklog) error {
	defer r.s.lockWrite(ctx)()

	for _, existing := range r.s.data.productBacklogs {
		if existing.ProjectID == b.ProjectID {
			return domain.ErrProductBacklogExists
		}
	}
	b.ID = newID()
	r.s.data.productBacklogs[b.ID] = *b
	return nil
}

func (r *ProductBacklogRepository) FindByID(_ context.Context, id string) (*domain.ProductBacklog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.data.productBacklogs[id]
	if !ok {
		return nil, domain.ErrProductBacklogNotFound
	}
	return &b, nil
}

func (r *ProductBacklogRepository) FindByProject(_ context.Context, projectID string) (*domain.ProductBacklog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.data.productBacklogs {
		if b.ProjectID == projectID {
			return &b, nil
		}
	}
	return nil, domain.ErrProductBacklogNotFound
}

func (r *ProductBacklogRepository) Update(ctx context.Context, b *domain.ProductBacklog) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.productBacklogs[b.ID]; !ok {
		return domain.ErrProductBacklogNotFound
	}
	r.s.data.productBacklogs[b.ID] = *b
	return nil
}

func (r *ProductBacklogRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.productBacklogs[id]; !ok {
		return domain.ErrProductBacklogNotFound
	}
	delete(r.s.data.productBacklogs, id)
	return nil
}

// SprintBacklogRepository implements ports.SprintBacklogRepository.
type SprintBacklogRepository struct{ s *Store }

var _ ports.SprintBacklogRepository = (*SprintBacklogRepository)(nil)

func (s *Store) SprintBacklogs() *SprintBacklogRepository { return &SprintBacklogRepository{s: s} }

func (r *SprintBacklogRepository) Create(ctx context.Context, sb *domain.SprintBacklog) error {
	defer r.s.lockWrite(ctx)()

	sb.ID = newID()
	r.s.data.sprintBacklogs[sb.ID] = *sb
	return nil
}

func (r *SprintBacklogRepository) FindByID(_ context.Context, id string) (*domain.SprintBacklog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sb, ok := r.s.data.sprintBacklogs[id]
	if !ok {
		return nil, domain.ErrSprintBacklogNotFound
	}
	return &sb, nil
}

func (r *SprintBacklogRepository) ListByProject(_ context.Context, projectID string) ([]*domain.SprintBacklog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.SprintBacklog, 0)
	for _, sb := range r.s.data.sprintBacklogs {
		if sb.ProjectID == projectID {
			sb := sb
			out = append(out, &sb)
		}
	}
	return byCreation(out,
		func(sb *domain.SprintBacklog) time.Time { return sb.CreatedAt },
		func(sb *domain.SprintBacklog) string { return sb.ID }), nil
}

func (r *SprintBacklogRepository) Update(ctx context.Context, sb *domain.SprintBacklog) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.sprintBacklogs[sb.ID]; !ok {
		return domain.ErrSprintBacklogNotFound
	}
	r.s.data.sprintBacklogs[sb.ID] = *sb
	return nil
}

func (r *SprintBacklogRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.sprintBacklogs[id]; !ok {
		return domain.ErrSprintBacklogNotFound
	}
	delete(r.s.data.sprintBacklogs, id)
	return nil
}

func (r *SprintBacklogRepository) DeleteByProject(ctx context.Context, projectID string) error {
	defer r.s.lockWrite(ctx)()

	for id, sb := range r.s.data.sprintBacklogs {
		if sb.ProjectID == projectID {
			delete(r.s.data.sprintBacklogs, id)
		}
	}
	return nil
}
