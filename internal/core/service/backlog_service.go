package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// ProductBacklogService manages the single product backlog of a project.
type ProductBacklogService struct {
	repos  Repositories
	tx     ports.Transactor
	access *AccessService
	log    zerolog.Logger
}

func NewProductBacklogService(repos Repositories, tx ports.Transactor, access *AccessService, log zerolog.Logger) *ProductBacklogService {
	return &ProductBacklogService{repos: repos, tx: tx, access: access, log: log}
}

func (s *ProductBacklogService) CreateProductBacklog(ctx context.Context, principal *domain.User, in ports.ProductBacklogInput) (*domain.ProductBacklog, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}

	_, err = s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
	if err == nil {
		return nil, domain.ErrProductBacklogExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	backlog := &domain.ProductBacklog{
		Name:      in.Name,
		ProjectID: project.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.ProductBacklogs.Create(ctx, backlog); err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityProductBacklog).Inc()
	s.log.Info().Str("product_backlog_id", backlog.ID).Str("project_id", project.ID).Msg("product backlog created")
	return backlog, nil
}

func (s *ProductBacklogService) GetProductBacklog(ctx context.Context, principal *domain.User) (*domain.ProductBacklog, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	return s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
}

func (s *ProductBacklogService) UpdateProductBacklog(ctx context.Context, principal *domain.User, in ports.ProductBacklogInput) (*domain.ProductBacklog, error) {
	backlog, err := s.ownedBacklog(ctx, principal)
	if err != nil {
		return nil, err
	}

	backlog.Name = in.Name
	backlog.UpdatedAt = time.Now().UTC()
	if err := s.repos.ProductBacklogs.Update(ctx, backlog); err != nil {
		return nil, err
	}
	return backlog, nil
}

// DeleteProductBacklog removes the backlog with its epics, user stories and
// their test cases.
func (s *ProductBacklogService) DeleteProductBacklog(ctx context.Context, principal *domain.User) error {
	backlog, err := s.ownedBacklog(ctx, principal)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return cascade{repos: s.repos}.deleteProductBacklog(ctx, backlog.ID)
	})
	if err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntityProductBacklog).Inc()
	s.log.Info().Str("product_backlog_id", backlog.ID).Msg("product backlog deleted")
	return nil
}

func (s *ProductBacklogService) ownedBacklog(ctx context.Context, principal *domain.User) (*domain.ProductBacklog, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	return s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
}

// SprintBacklogService manages the sprint backlogs of a project.
type SprintBacklogService struct {
	repos  Repositories
	tx     ports.Transactor
	access *AccessService
	log    zerolog.Logger
}

func NewSprintBacklogService(repos Repositories, tx ports.Transactor, access *AccessService, log zerolog.Logger) *SprintBacklogService {
	return &SprintBacklogService{repos: repos, tx: tx, access: access, log: log}
}

func (s *SprintBacklogService) CreateSprintBacklog(ctx context.Context, principal *domain.User, in ports.SprintBacklogInput) (*domain.SprintBacklog, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sprint := &domain.SprintBacklog{
		Name:        in.Name,
		Description: in.Description,
		ProjectID:   project.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.SprintBacklogs.Create(ctx, sprint); err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntitySprintBacklog).Inc()
	s.log.Info().Str("sprint_backlog_id", sprint.ID).Str("project_id", project.ID).Msg("sprint backlog created")
	return sprint, nil
}

// GetSprintBacklog returns a sprint backlog with the epics scheduled into it.
func (s *SprintBacklogService) GetSprintBacklog(ctx context.Context, principal *domain.User, id string) (*ports.SprintBacklogDetail, error) {
	sprint, err := s.repos.SprintBacklogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, sprint.ProjectID); err != nil {
		return nil, err
	}

	epics, err := s.repos.Epics.ListBySprintBacklog(ctx, sprint.ID)
	if err != nil {
		return nil, err
	}
	return &ports.SprintBacklogDetail{SprintBacklog: sprint, Epics: epics}, nil
}

func (s *SprintBacklogService) ListSprintBacklogs(ctx context.Context, principal *domain.User) ([]*domain.SprintBacklog, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	return s.repos.SprintBacklogs.ListByProject(ctx, project.ID)
}

func (s *SprintBacklogService) UpdateSprintBacklog(ctx context.Context, principal *domain.User, id string, in ports.SprintBacklogInput) (*domain.SprintBacklog, error) {
	sprint, err := s.repos.SprintBacklogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, sprint.ProjectID); err != nil {
		return nil, err
	}

	sprint.Name = in.Name
	sprint.Description = in.Description
	sprint.UpdatedAt = time.Now().UTC()
	if err := s.repos.SprintBacklogs.Update(ctx, sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// DeleteSprintBacklog removes the sprint and unschedules its epics.
func (s *SprintBacklogService) DeleteSprintBacklog(ctx context.Context, principal *domain.User, id string) error {
	sprint, err := s.repos.SprintBacklogs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, principal, sprint.ProjectID); err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return cascade{repos: s.repos}.deleteSprintBacklog(ctx, sprint.ID)
	})
	if err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntitySprintBacklog).Inc()
	s.log.Info().Str("sprint_backlog_id", sprint.ID).Msg("sprint backlog deleted")
	return nil
}
