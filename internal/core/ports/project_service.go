package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
}

// InviteUserInput carries the account created for an invited member.
type InviteUserInput struct {
	FullName  string
	Email     string
	Password  string
	Privilege domain.Privilege
}

// ProjectDetail is a project together with its members.
type ProjectDetail struct {
	Project *domain.Project
	Members []*domain.User
}

// ProjectService defines use-case operations on the principal's project.
type ProjectService interface {
	CreateProject(ctx context.Context, principal *domain.User, input ProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, principal *domain.User) (*ProjectDetail, error)
	UpdateProject(ctx context.Context, principal *domain.User, input ProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, principal *domain.User) error
	InviteUser(ctx context.Context, principal *domain.User, input InviteUserInput) (*domain.User, error)
}

// RoleInput carries the editable fields of a role.
type RoleInput struct {
	Name        string
	Description string
}

// RoleService defines use-case operations for project roles.
type RoleService interface {
	CreateRole(ctx context.Context, principal *domain.User, input RoleInput) (*domain.Role, error)
	GetRole(ctx context.Context, principal *domain.User, id string) (*domain.Role, error)
	ListRoles(ctx context.Context, principal *domain.User) ([]*domain.Role, error)
	UpdateRole(ctx context.Context, principal *domain.User, id string, input RoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, principal *domain.User, id string) error
}
