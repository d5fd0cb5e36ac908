package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// RoleService manages the personas of a project. Names are unique per
// project; the lookup below gives a clear error and the store's unique index
// closes the race between lookup and insert.
type RoleService struct {
	roles   ports.RoleRepository
	stories ports.UserStoryRepository
	access  *AccessService
	log     zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, stories ports.UserStoryRepository, access *AccessService, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, stories: stories, access: access, log: log}
}

func (s *RoleService) CreateRole(ctx context.Context, principal *domain.User, in ports.RoleInput) (*domain.Role, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := s.ensureNameFree(ctx, project.ID, name, ""); err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name:        name,
		Description: in.Description,
		ProjectID:   project.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityRole).Inc()
	s.log.Info().Str("role_id", role.ID).Str("project_id", project.ID).Msg("role created")
	return role, nil
}

func (s *RoleService) GetRole(ctx context.Context, principal *domain.User, id string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, role.ProjectID); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context, principal *domain.User) ([]*domain.Role, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	return s.roles.ListByProject(ctx, project.ID)
}

func (s *RoleService) UpdateRole(ctx context.Context, principal *domain.User, id string, in ports.RoleInput) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, role.ProjectID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name != role.Name {
		if err := s.ensureNameFree(ctx, role.ProjectID, name, role.ID); err != nil {
			return nil, err
		}
	}

	role.Name = name
	role.Description = in.Description
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole refuses to remove a role that user stories are still written for.
func (s *RoleService) DeleteRole(ctx context.Context, principal *domain.User, id string) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, principal, role.ProjectID); err != nil {
		return err
	}

	n, err := s.stories.CountByRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrRoleInUse
	}
	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntityRole).Inc()
	s.log.Info().Str("role_id", role.ID).Msg("role deleted")
	return nil
}

func (s *RoleService) ensureNameFree(ctx context.Context, projectID, name, selfID string) error {
	existing, err := s.roles.FindByName(ctx, projectID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrRoleExists
	}
	return nil
}
