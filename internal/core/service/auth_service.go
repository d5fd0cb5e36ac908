package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Allowed(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements signup and login.
type AuthService struct {
	users     ports.UserRepository
	throttle  LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService builds an AuthService. throttle may be nil to disable
// failed-login limiting.
func NewAuthService(users ports.UserRepository, throttle LoginThrottle, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, throttle: throttle, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Signup registers a product owner account.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	user, err := newUser(in.FullName, normalizeEmail(in.Email), in.Password, domain.PrivilegeProductOwner, "")
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityUser).Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if !allowed {
			metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return &ports.LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL / time.Second),
		User:      user,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"privilege": string(user.Privilege),
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newUser hashes the password and builds an unsaved user.
func newUser(fullName, email, password string, privilege domain.Privilege, projectID string) (*domain.User, error) {
	if strings.TrimSpace(fullName) == "" || email == "" || password == "" {
		return nil, domain.ErrIncompleteAccount
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Privilege:    privilege,
		ProjectID:    projectID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
