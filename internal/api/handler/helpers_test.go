package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/api/middleware"
	"github.com/agileworks/backlog-api/internal/core/domain"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context. A nil principal leaves the request
// unauthenticated.
func newContext(e *echo.Echo, method, path, body string, principal *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(middleware.PrincipalKey, principal)
	}
	return c, rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func owner() *domain.User {
	return &domain.User{ID: "u1", FullName: "Alice", Email: "alice@example.com", Privilege: domain.PrivilegeProductOwner, ProjectID: "p1"}
}

func TestCtxPrincipal_Missing(t *testing.T) {
	c, _ := newContext(newEcho(), http.MethodGet, "/api/me", "", nil)

	_, err := ctxPrincipal(c)
	expectHTTPError(t, err, http.StatusUnauthorized)
}
