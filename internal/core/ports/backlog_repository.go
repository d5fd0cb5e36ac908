package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// ProductBacklogRepository defines persistence operations for product
// backlogs. A second backlog for the same project is rejected with
// domain.ErrProductBacklogExists.
type ProductBacklogRepository interface {
	Create(ctx context.Context, b *domain.ProductBacklog) error
	FindByID(ctx context.Context, id string) (*domain.ProductBacklog, error)
	FindByProject(ctx context.Context, projectID string) (*domain.ProductBacklog, error)
	Update(ctx context.Context, b *domain.ProductBacklog) error
	Delete(ctx context.Context, id string) error
}

// SprintBacklogRepository defines persistence operations for sprint backlogs.
type SprintBacklogRepository interface {
	Create(ctx context.Context, s *domain.SprintBacklog) error
	FindByID(ctx context.Context, id string) (*domain.SprintBacklog, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.SprintBacklog, error)
	Update(ctx context.Context, s *domain.SprintBacklog) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
