package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

// EpicService manages epics and their scheduling into sprint backlogs.
type EpicService struct {
	repos  Repositories
	tx     ports.Transactor
	access *AccessService
	log    zerolog.Logger
}

func NewEpicService(repos Repositories, tx ports.Transactor, access *AccessService, log zerolog.Logger) *EpicService {
	return &EpicService{repos: repos, tx: tx, access: access, log: log}
}

// CreateEpic adds an epic to the principal's product backlog.
func (s *EpicService) CreateEpic(ctx context.Context, principal *domain.User, in ports.EpicInput) (*domain.Epic, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	backlog, err := s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	epic := &domain.Epic{
		Name:             in.Name,
		Description:      in.Description,
		Priority:         orPriority(in.Priority, domain.PriorityMedium),
		Status:           orStatus(in.Status, domain.StatusNotStarted),
		DueDate:          in.DueDate,
		ProductBacklogID: backlog.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repos.Epics.Create(ctx, epic); err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(metrics.EntityEpic).Inc()
	s.log.Info().Str("epic_id", epic.ID).Str("product_backlog_id", backlog.ID).Msg("epic created")
	return epic, nil
}

// GetEpic returns an epic with its user stories.
func (s *EpicService) GetEpic(ctx context.Context, principal *domain.User, id string) (*ports.EpicDetail, error) {
	epic, projectID, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}

	stories, err := s.repos.UserStories.ListByEpic(ctx, epic.ID)
	if err != nil {
		return nil, err
	}
	return &ports.EpicDetail{Epic: epic, UserStories: stories}, nil
}

func (s *EpicService) ListEpics(ctx context.Context, principal *domain.User) ([]*domain.Epic, error) {
	project, err := s.access.OwnProject(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireMemberOrOwner(ctx, principal, project.ID); err != nil {
		return nil, err
	}
	backlog, err := s.repos.ProductBacklogs.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return s.repos.Epics.ListByProductBacklog(ctx, backlog.ID)
}

func (s *EpicService) UpdateEpic(ctx context.Context, principal *domain.User, id string, in ports.EpicInput) (*domain.Epic, error) {
	epic, projectID, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}

	epic.Name = in.Name
	epic.Description = in.Description
	epic.Priority = orPriority(in.Priority, epic.Priority)
	epic.Status = orStatus(in.Status, epic.Status)
	epic.DueDate = in.DueDate
	epic.UpdatedAt = time.Now().UTC()
	if err := s.repos.Epics.Update(ctx, epic); err != nil {
		return nil, err
	}
	return epic, nil
}

// DeleteEpic removes the epic; its user stories stay in the backlog unlinked.
func (s *EpicService) DeleteEpic(ctx context.Context, principal *domain.User, id string) error {
	epic, projectID, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return cascade{repos: s.repos}.deleteEpic(ctx, epic.ID)
	})
	if err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues(metrics.EntityEpic).Inc()
	s.log.Info().Str("epic_id", epic.ID).Msg("epic deleted")
	return nil
}

// LinkToSprintBacklog schedules an epic into a sprint. The epic must not be
// scheduled yet, must carry at least one user story, and the caller must own
// the project of both.
func (s *EpicService) LinkToSprintBacklog(ctx context.Context, principal *domain.User, sprintBacklogID, epicID string) (*domain.Epic, error) {
	epic, projectID, err := s.load(ctx, epicID)
	if err != nil {
		return nil, err
	}
	if epic.IsLinked() {
		return nil, domain.ErrEpicAlreadyLinked
	}

	sprint, err := s.repos.SprintBacklogs.FindByID(ctx, sprintBacklogID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, sprint.ProjectID); err != nil {
		return nil, err
	}
	if sprint.ProjectID != projectID {
		return nil, domain.ErrAccessDenied
	}

	n, err := s.repos.UserStories.CountByEpic(ctx, epic.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrEpicHasNoUserStories
	}

	epic.SprintBacklogID = sprint.ID
	epic.UpdatedAt = time.Now().UTC()
	if err := s.repos.Epics.Update(ctx, epic); err != nil {
		return nil, err
	}

	metrics.LinksTotal.WithLabelValues("epic_sprint", "link").Inc()
	s.log.Info().Str("epic_id", epic.ID).Str("sprint_backlog_id", sprint.ID).Msg("epic linked to sprint backlog")
	return epic, nil
}

// Unlink removes the epic from whatever sprint it is scheduled in.
func (s *EpicService) Unlink(ctx context.Context, principal *domain.User, epicID string) (*domain.Epic, error) {
	epic, projectID, err := s.load(ctx, epicID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, principal, projectID); err != nil {
		return nil, err
	}

	epic.SprintBacklogID = ""
	epic.UpdatedAt = time.Now().UTC()
	if err := s.repos.Epics.Update(ctx, epic); err != nil {
		return nil, err
	}

	metrics.LinksTotal.WithLabelValues("epic_sprint", "unlink").Inc()
	s.log.Info().Str("epic_id", epic.ID).Msg("epic unlinked from sprint backlog")
	return epic, nil
}

// load fetches an epic and the ID of the project owning it.
func (s *EpicService) load(ctx context.Context, id string) (*domain.Epic, string, error) {
	epic, err := s.repos.Epics.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	backlog, err := s.repos.ProductBacklogs.FindByID(ctx, epic.ProductBacklogID)
	if err != nil {
		return nil, "", err
	}
	return epic, backlog.ProjectID, nil
}

func orPriority(p, fallback domain.Priority) domain.Priority {
	if p == "" {
		return fallback
	}
	return p
}

func orStatus(st, fallback domain.WorkStatus) domain.WorkStatus {
	if st == "" {
		return fallback
	}
	return st
}
