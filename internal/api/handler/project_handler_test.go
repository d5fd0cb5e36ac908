package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type stubProjectService struct {
	ports.ProjectService
	getFn    func(ctx context.Context, principal *domain.User) (*ports.ProjectDetail, error)
	inviteFn func(ctx context.Context, principal *domain.User, input ports.InviteUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, principal *domain.User) error
}

func (s *stubProjectService) GetProject(ctx context.Context, principal *domain.User) (*ports.ProjectDetail, error) {
	return s.getFn(ctx, principal)
}

func (s *stubProjectService) InviteUser(ctx context.Context, principal *domain.User, input ports.InviteUserInput) (*domain.User, error) {
	return s.inviteFn(ctx, principal, input)
}

func (s *stubProjectService) DeleteProject(ctx context.Context, principal *domain.User) error {
	return s.deleteFn(ctx, principal)
}

func TestProjectHandler_Get_EmbedsMembers(t *testing.T) {
	stub := &stubProjectService{
		getFn: func(ctx context.Context, principal *domain.User) (*ports.ProjectDetail, error) {
			return &ports.ProjectDetail{
				Project: &domain.Project{ID: "p1", Name: "Shop", OwnerID: principal.ID},
				Members: []*domain.User{principal, {ID: "u2", Privilege: domain.PrivilegeDeveloper, ProjectID: "p1"}},
			}, nil
		},
	}
	handler := NewProjectHandler(stub)

	c, rec := newContext(newEcho(), http.MethodGet, "/api/projects", "", owner())
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		ID      string           `json:"id"`
		Name    string           `json:"name"`
		OwnerID string           `json:"ownerId"`
		Members []map[string]any `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "p1" || resp.OwnerID != "u1" || len(resp.Members) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestProjectHandler_Invite(t *testing.T) {
	stub := &stubProjectService{
		inviteFn: func(ctx context.Context, principal *domain.User, input ports.InviteUserInput) (*domain.User, error) {
			if input.Privilege != domain.PrivilegeQualityAssurance || input.Email != "qa@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u3", Email: input.Email, Privilege: input.Privilege, ProjectID: principal.ProjectID}, nil
		},
	}
	handler := NewProjectHandler(stub)

	body := `{"fullName":"Quinn","email":"qa@example.com","password":"secret","privilege":"QUALITY_ASSURANCE"}`
	c, rec := newContext(newEcho(), http.MethodPost, "/api/projects/invite", body, owner())
	if err := handler.Invite(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProjectHandler_Invite_UnknownPrivilege(t *testing.T) {
	handler := NewProjectHandler(&stubProjectService{})

	body := `{"fullName":"Quinn","email":"qa@example.com","password":"secret","privilege":"ADMIN"}`
	c, _ := newContext(newEcho(), http.MethodPost, "/api/projects/invite", body, owner())
	expectHTTPError(t, handler.Invite(c), http.StatusBadRequest)
}

func TestProjectHandler_Delete(t *testing.T) {
	called := false
	stub := &stubProjectService{
		deleteFn: func(ctx context.Context, principal *domain.User) error {
			called = true
			return nil
		},
	}
	handler := NewProjectHandler(stub)

	c, rec := newContext(newEcho(), http.MethodDelete, "/api/projects", "", owner())
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 after delete, got %d (called=%v)", rec.Code, called)
	}
}
