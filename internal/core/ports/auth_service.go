package ports

import (
	"context"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// SignupInput carries the data needed to register a new account.
type SignupInput struct {
	FullName string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64
	User      *domain.User
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
