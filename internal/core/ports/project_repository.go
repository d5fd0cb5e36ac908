package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects. Create
// assigns the ID on the passed entity.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository defines persistence operations for project roles.
// Role names are unique per project; Create and Update report a clash as
// domain.ErrRoleExists.
type RoleRepository interface {
	Create(ctx context.Context, r *domain.Role) error
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, projectID, name string) (*domain.Role, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Role, error)
	Update(ctx context.Context, r *domain.Role) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
