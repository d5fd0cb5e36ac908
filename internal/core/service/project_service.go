package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// ProjectService manages the principal's project and its membership.
type ProjectService struct {
	repos  Repositories
	tx     ports.Transactor
	access *AccessService
	log    zerolog.Logger
}

func NewProjectService(repos Repositories, tx ports.Transactor, access *AccessService, log zerolog.Logger) *ProjectService {
	return &ProjectService{repos: repos, tx: tx, access: access, log: log}
}

// CreateProject makes the principal the owner of a new project. A user that
// already belongs to a project cannot create another.
func (s *ProjectService) CreateProject(ctx context.Context, principal *domain.User, in ports.ProjectInput) (*domain.Project, error) {
	if principal == nil {
		return nil, domain.ErrNoPrincipal
	}
	if principal.HasProject() {
		return nil, domain.ErrAlreadyInProject
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     principal.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Projects.Create(ctx, project); err != nil {
			return err
		}
		return s.repos.Users.SetProject(ctx, principal.ID, project.ID)
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", principal.ID).Msg("failed to create project")
		return nil, err
	}
	principal.ProjectID = project.ID

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityProject).Inc()
	s.log.Info().Str("project_id", project.ID).Str("owner_id", principal.ID).Msg("project created")
	return project, nil
}

// GetProject returns the principal's project and its members.
func (s *ProjectService) GetProject(ctx context.Context, principal *domain.User) (*ports.ProjectDetail, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}

	members, err := s.repos.Users.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return &ports.ProjectDetail{Project: project, Members: members}, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, principal *domain.User, in ports.ProjectInput) (*domain.Project, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.Description = in.Description
	project.UpdatedAt = time.Now().UTC()
	if err := s.repos.Projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project with its backlogs and roles and releases
// every member.
func (s *ProjectService) DeleteProject(ctx context.Context, principal *domain.User) error {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return cascade{repos: s.repos}.deleteProject(ctx, project.ID)
	})
	if err != nil {
		return err
	}
	principal.ProjectID = ""

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntityProject).Inc()
	s.log.Info().Str("project_id", project.ID).Msg("project deleted")
	return nil
}

// InviteUser creates an account that is a member of the principal's project.
func (s *ProjectService) InviteUser(ctx context.Context, principal *domain.User, in ports.InviteUserInput) (*domain.User, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckProjectAccess(ctx, principal, project.ID, domain.PrivilegeScrumMaster); err != nil {
		return nil, err
	}
	if !in.Privilege.Valid() {
		return nil, domain.ErrInvalidPrivilege
	}

	email := normalizeEmail(in.Email)
	var invited *domain.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		members, err := s.repos.Users.ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if strings.EqualFold(m.Email, email) {
				return domain.ErrAlreadyInvited
			}
		}

		user, err := newUser(in.FullName, email, in.Password, in.Privilege, project.ID)
		if err != nil {
			return err
		}
		invited, err = s.repos.Users.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityUser).Inc()
	s.log.Info().
		Str("project_id", project.ID).
		Str("user_id", invited.ID).
		Str("privilege", string(invited.Privilege)).
		Msg("user invited")
	return invited, nil
}
