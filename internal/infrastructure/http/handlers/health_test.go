package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{
			"all healthy",
			map[string]Check{"mongodb": func(context.Context) error { return nil }},
			http.StatusOK, "ok",
		},
		{
			"one down",
			map[string]Check{
				"mongodb": func(context.Context) error { return nil },
				"redis":   func(context.Context) error { return errors.New("connection refused") },
			},
			http.StatusServiceUnavailable, "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := NewHealthHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("Readiness returned error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Fatalf("expected status %q, got %q", tt.wantBody, body.Status)
			}
			if len(body.Dependencies) != len(tt.checks) {
				t.Fatalf("expected %d dependencies, got %d", len(tt.checks), len(body.Dependencies))
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
