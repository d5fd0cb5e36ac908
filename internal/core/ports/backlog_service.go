package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// ProductBacklogInput carries the editable fields of a product backlog.
type ProductBacklogInput struct {
	Name string
}

// ProductBacklogService manages the single product backlog of the
// principal's project.
type ProductBacklogService interface {
	CreateProductBacklog(ctx context.Context, principal *domain.User, input ProductBacklogInput) (*domain.ProductBacklog, error)
	GetProductBacklog(ctx context.Context, principal *domain.User) (*domain.ProductBacklog, error)
	UpdateProductBacklog(ctx context.Context, principal *domain.User, input ProductBacklogInput) (*domain.ProductBacklog, error)
	DeleteProductBacklog(ctx context.Context, principal *domain.User) error
}

// SprintBacklogInput carries the editable fields of a sprint backlog.
type SprintBacklogInput struct {
	Name        string
	Description string
}

// SprintBacklogDetail is a sprint backlog with the epics scheduled into it.
type SprintBacklogDetail struct {
	SprintBacklog *domain.SprintBacklog
	Epics         []*domain.Epic
}

type SprintBacklogService interface {
	CreateSprintBacklog(ctx context.Context, principal *domain.User, input SprintBacklogInput) (*domain.SprintBacklog, error)
	GetSprintBacklog(ctx context.Context, principal *domain.User, id string) (*SprintBacklogDetail, error)
	ListSprintBacklogs(ctx context.Context, principal *domain.User) ([]*domain.SprintBacklog, error)
	UpdateSprintBacklog(ctx context.Context, principal *domain.User, id string, input SprintBacklogInput) (*domain.SprintBacklog, error)
	DeleteSprintBacklog(ctx context.Context, principal *domain.User, id string) error
}
