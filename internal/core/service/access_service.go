package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// AccessService answers ownership, membership and privilege questions about
// a principal and a project. Every domain service routes its authorization
// through it.
type AccessService struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	log      zerolog.Logger
}

func NewAccessService(users ports.UserRepository, projects ports.ProjectRepository, log zerolog.Logger) *AccessService {
	return &AccessService{users: users, projects: projects, log: log}
}

// ResolvePrincipal loads the authenticated user behind a verified token.
func (s *AccessService) ResolvePrincipal(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrNoPrincipal
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPrincipal
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	return user, nil
}

// IsProjectOwner reports whether principal owns projectID.
func (s *AccessService) IsProjectOwner(ctx context.Context, principal *domain.User, projectID string) (bool, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return principal != nil && principal.ID == project.OwnerID, nil
}

// IsProjectMember reports whether principal is one of projectID's users.
func (s *AccessService) IsProjectMember(ctx context.Context, principal *domain.User, projectID string) (bool, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return principal != nil && principal.ProjectID == project.ID, nil
}

// CheckProjectAccess lets the owner through unconditionally; anyone else
// must be a member whose privilege ranks at least minPrivilege.
func (s *AccessService) CheckProjectAccess(ctx context.Context, principal *domain.User, projectID string, minPrivilege domain.Privilege) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if principal == nil {
		return domain.ErrNoPrincipal
	}
	if principal.ID == project.OwnerID {
		return nil
	}
	if principal.ProjectID != project.ID {
		return s.deny("member", principal, projectID)
	}
	if !principal.Privilege.AtLeast(minPrivilege) {
		return s.deny("privilege", principal, projectID)
	}
	return nil
}

// RequireMemberOrOwner grants read and shared access to a project.
func (s *AccessService) RequireMemberOrOwner(ctx context.Context, principal *domain.User, projectID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if principal == nil {
		return domain.ErrNoPrincipal
	}
	if principal.ID == project.OwnerID || principal.ProjectID == project.ID {
		return nil
	}
	return s.deny("member", principal, projectID)
}

// RequireOwner grants owner-only mutations on a project.
func (s *AccessService) RequireOwner(ctx context.Context, principal *domain.User, projectID string) error {
	owner, err := s.IsProjectOwner(ctx, principal, projectID)
	if err != nil {
		return err
	}
	if principal == nil {
		return domain.ErrNoPrincipal
	}
	if !owner {
		return s.deny("owner", principal, projectID)
	}
	return nil
}

// OwnProject returns the principal's project or domain.ErrNoProject.
func (s *AccessService) OwnProject(ctx context.Context, principal *domain.User) (*domain.Project, error) {
	if principal == nil {
		return nil, domain.ErrNoPrincipal
	}
	if !principal.HasProject() {
		return nil, domain.ErrNoProject
	}
	project, err := s.projects.FindByID(ctx, principal.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.ErrNoProject
		}
		return nil, err
	}
	return project, nil
}

func (s *AccessService) deny(check string, principal *domain.User, projectID string) error {
	metrics.AccessDeniedTotal.WithLabelValues(check).Inc()
	s.log.Warn().
		Str("check", check).
		Str("user_id", principal.ID).
		Str("project_id", projectID).
		Msg("project access denied")
	return domain.ErrAccessDenied
}
