package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user and returns it with its ID. A duplicate email
	// yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByProject returns the members of a project.
	ListByProject(ctx context.Context, projectID string) ([]*domain.User, error)
	// SetProject attaches a user to a project; an empty projectID detaches it.
	SetProject(ctx context.Context, userID, projectID string) error
	// DetachProject clears the project of every member of projectID.
	DetachProject(ctx context.Context, projectID string) error
}
