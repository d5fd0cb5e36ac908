package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, input ports.SignupInput) (*domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
			if input.FullName != "Alice" || input.Email != "alice@example.com" || input.Password != "secret" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u1", FullName: input.FullName, Email: input.Email, PasswordHash: "hash", Privilege: domain.PrivilegeProductOwner}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/auth/signup", `{"fullName":"Alice","email":"alice@example.com","password":"secret"}`, nil)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["fullName"] != "Alice" || resp["privilege"] != "PRODUCT_OWNER" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, ok := resp["passwordHash"]; ok {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Signup_UserExists(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(newEcho(), http.MethodPost, "/auth/signup", `{"fullName":"Bob","email":"bob@example.com","password":"secret"}`, nil)
	err := handler.Signup(c)

	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for name, body := range map[string]string{
		"not json":       "not-json",
		"short password": `{"fullName":"Bob","email":"bob@example.com","password":"123"}`,
		"bad email":      `{"fullName":"Bob","email":"bob","password":"secret"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(newEcho(), http.MethodPost, "/auth/signup", body, nil)
			expectHTTPError(t, handler.Signup(c), http.StatusBadRequest)
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{Token: "token123", ExpiresIn: 86400, User: owner()}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(newEcho(), http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret"}`, nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.ExpiresIn != 86400 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(newEcho(), http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"wrong"}`, nil)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newContext(newEcho(), http.MethodGet, "/api/me", "", owner())
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.ProjectID != "p1" {
		t.Fatalf("unexpected user: %+v", resp)
	}
}
